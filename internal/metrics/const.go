package metrics

const Namespace = "jobboard_client"

const (
	RefreshOutcomeSuccess = "success"
	RefreshOutcomeFailure = "failure"
)

const (
	RedirectResultNavigated  = "navigated"
	RedirectResultSuppressed = "suppressed"
)

const (
	StorageTypeBolt   = "bolt"
	StorageTypeRedis  = "redis"
	StorageTypeMemory = "memory"
)
