package intent

// Payload is the typed data of one intent. Each domain has its own struct;
// pointer fields distinguish "absent" from zero.
type Payload interface {
	payload()
}

type TaskPayload struct {
	ID           string
	Title        string
	NewTitle     string
	Description  string
	Status       string
	Priority     string
	DueDate      string
	ExpectedCost *float64
	ContextType  string
	FinanceType  string
	ContextID    string
	BudgetName   string
	SavingsName  string
}

type FinancePayload struct {
	ID          string
	Type        string
	Amount      *float64
	Category    string
	Description string
	Date        string
}

// BudgetPayload serves both budgets and savings goals. Amount is the
// deposit or withdrawal for savings movements.
type BudgetPayload struct {
	ID            string
	Name          string
	NewName       string
	TargetAmount  *float64
	CurrentAmount *float64
	Amount        *float64
	Period        string
}

type NotePayload struct {
	ID       string
	Title    string
	NewTitle string
	Content  string
	Tags     []string
	Pinned   *bool
	Archived *bool
}

type HabitPayload struct {
	ID   string
	Name string
}

type InventoryPayload struct {
	ID             string
	Name           string
	Category       string
	Store          string
	Status         string
	Quantity       *int
	Cost           *float64
	Price          *float64
	RecordPurchase bool
}

type StudyPayload struct {
	ID      string
	Subject string
	Chapter string
	Part    string
	Preset  string
	Status  string
}

type NavigatePayload struct {
	Route string
}

// NoPayload is carried by conversational actions.
type NoPayload struct{}

func (TaskPayload) payload()      {}
func (FinancePayload) payload()   {}
func (BudgetPayload) payload()    {}
func (NotePayload) payload()      {}
func (HabitPayload) payload()     {}
func (InventoryPayload) payload() {}
func (StudyPayload) payload()     {}
func (NavigatePayload) payload()  {}
func (NoPayload) payload()        {}
