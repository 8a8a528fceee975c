package cacheaside

import (
	"fmt"
	"strconv"
	"strings"
)

// Stat names reported by Stats. Values are the raw strings from the store's
// INFO report, except StatHitRate which is derived ("80.00%").
const (
	StatUsedMemory       = "used_memory_human"
	StatConnectedClients = "connected_clients"
	StatUptime           = "uptime_in_seconds"
	StatKeyspaceHits     = "keyspace_hits"
	StatKeyspaceMisses   = "keyspace_misses"
	StatExpiredKeys      = "expired_keys"
	StatHitRate          = "hit_rate"
)

var statFields = [...]string{
	StatUsedMemory,
	StatConnectedClients,
	StatUptime,
	StatKeyspaceHits,
	StatKeyspaceMisses,
	StatExpiredKeys,
}

// Stats is a point-in-time snapshot of store metrics, keyed by stat name.
type Stats map[string]string

// HitRate returns the derived hit rate as a percentage.
func (s Stats) HitRate() (float64, bool) {
	v, ok := s[StatHitRate]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	return f, err == nil
}

func parseInfo(info string) Stats {
	s := make(Stats, len(statFields)+1)
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, name := range statFields {
			if v, ok := strings.CutPrefix(line, name+":"); ok {
				s[name] = v
				break
			}
		}
	}

	hits, herr := strconv.ParseFloat(s[StatKeyspaceHits], 64)
	misses, merr := strconv.ParseFloat(s[StatKeyspaceMisses], 64)
	if herr == nil && merr == nil && hits+misses > 0 {
		s[StatHitRate] = fmt.Sprintf("%.2f%%", hits/(hits+misses)*100)
	}
	return s
}
