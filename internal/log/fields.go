package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldCategoryID    = "category_id"
	FieldGoalID        = "goal_id"
	FieldUserID        = "user_id"
	FieldAmountCents   = "amount_cents"
	FieldKind          = "kind"
	FieldGatewayRef    = "gateway_ref"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentStore       = "store"
	ComponentTransaction = "transaction"
	ComponentGateway     = "gateway"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentExport      = "export"
	ComponentCache       = "cache"
	ComponentRateLimit   = "rate_limit"
)

// Operations defines standard operation names
const (
	OpCreate     = "create"
	OpDelete     = "delete"
	OpList       = "list"
	OpContribute = "contribute"
	OpLogin      = "login"
	OpLogout     = "logout"
	OpMirror     = "mirror"
	OpExport     = "export"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
