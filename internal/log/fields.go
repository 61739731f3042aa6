package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldCollection    = "collection"
	FieldDocumentID    = "document_id"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldCategory      = "category"
	FieldAmountCents   = "amount_cents"
	FieldDate          = "date"
	FieldRangeStart    = "range_start"
	FieldRangeEnd      = "range_end"
	FieldCount         = "count"
	FieldSkipped       = "skipped"
	FieldState         = "state"
	FieldDuration      = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentReport   = "report"
	ComponentRecords  = "records"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentListener = "listener"
	ComponentExport   = "export"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpQuery     = "query"
	OpAggregate = "aggregate"
	OpRender    = "render"
	OpExport    = "export"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
