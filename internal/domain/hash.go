package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// QueryHash returns a stable hash of SQL text, used to correlate executions,
// cached plans, and optimization results for the same statement. Whitespace
// runs and letter case do not affect the hash.
func QueryHash(sqlText string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(sqlText), " "))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:16])
}
