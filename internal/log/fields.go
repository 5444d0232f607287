package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldCategoryID = "category_id"
	FieldExpenseID  = "expense_id"
	FieldBudgetID   = "budget_id"
	FieldAmount     = "amount_cents"
)

// Components defines standard component names.
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStorage  = "storage"
	ComponentCategory = "category"
	ComponentExpense  = "expense"
	ComponentBudget   = "budget"
	ComponentUsage    = "usage"
	ComponentOcr      = "ocr"
	ComponentAMQP     = "amqp"
	ComponentTrace    = "trace"
)
