package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldEmail     = "email"
	FieldBillKey   = "bill_key"
	FieldBillName  = "bill_name"
	FieldBillDate  = "bill_date"
	FieldStatus    = "status"
	FieldFileName  = "file_name"
	FieldFileURL   = "file_url"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldBackend   = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentBillList = "bill_list"
	ComponentNewBill  = "new_bill"
	ComponentStore    = "store"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
	ComponentSession  = "session"
)

// Operations defines standard operation names
const (
	OpList     = "list"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpUpload   = "upload"
	OpSubmit   = "submit"
	OpValidate = "validate"
	OpSync     = "sync"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
