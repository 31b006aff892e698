package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldTable      = "table"
	FieldTab        = "tab"
	FieldMonth      = "month"
	FieldAmountWon  = "amount_won"
	FieldCategory   = "category"
	FieldPayer      = "payer"
	FieldRowCount   = "row_count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentSheets   = "sheets"
	ComponentCalendar = "calendar"
	ComponentDataset  = "dataset"
	ComponentCache    = "cache"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
)

// Operations defines standard operation names
const (
	OpLoad       = "load"
	OpAppend     = "append"
	OpPublish    = "publish"
	OpArchive    = "archive"
	OpInvalidate = "invalidate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
