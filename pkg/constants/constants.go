package constants

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	CampusIDKey ContextKey = "campusID"
	LoggerKey   ContextKey = "logger"
)
