package event

// MovementEntryRequested is published when the user confirms a stock movement
// for the currently selected product.
type MovementEntryRequested struct {
	ProductID    int64
	MovementType string
	Quantity     int
	Responsible  string
	Note         string
	Source       string
}

func NewMovementEntryRequested(productID int64, movementType string, quantity int, responsible, source string) *MovementEntryRequested {
	return &MovementEntryRequested{
		ProductID:    productID,
		MovementType: movementType,
		Quantity:     quantity,
		Responsible:  responsible,
		Source:       source,
	}
}

func (e *MovementEntryRequested) EventTopic() Topic {
	return TopicMovementEntryRequest
}

// MovementRegistered is published after a stock movement has been persisted.
type MovementRegistered struct {
	MovementID    string
	ProductID     int64
	MovementType  string
	Quantity      int
	PreviousStock int
	NewStock      int
}

func NewMovementRegistered(movementID string, productID int64, movementType string, quantity, previousStock, newStock int) *MovementRegistered {
	return &MovementRegistered{
		MovementID:    movementID,
		ProductID:     productID,
		MovementType:  movementType,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
	}
}

func (e *MovementRegistered) EventTopic() Topic {
	return TopicMovementRegistered
}

// MovementEntryFailed is published when a requested movement could not be
// applied (validation or persistence failure).
type MovementEntryFailed struct {
	ProductID int64
	Reason    string
}

func NewMovementEntryFailed(productID int64, reason string) *MovementEntryFailed {
	return &MovementEntryFailed{ProductID: productID, Reason: reason}
}

func (e *MovementEntryFailed) EventTopic() Topic {
	return TopicMovementEntryFailed
}

// MovementFormCleared is published when the movement entry form resets its
// state, so collaborating widgets can clear theirs too.
type MovementFormCleared struct {
	Source string
}

func NewMovementFormCleared(source string) *MovementFormCleared {
	return &MovementFormCleared{Source: source}
}

func (e *MovementFormCleared) EventTopic() Topic {
	return TopicMovementFormCleared
}

// StockChanged is published whenever a product's stock level changes, for
// list views and dashboards that track inventory levels.
type StockChanged struct {
	ProductID int64
	Delta     int
	NewStock  int
}

func NewStockChanged(productID int64, delta, newStock int) *StockChanged {
	return &StockChanged{ProductID: productID, Delta: delta, NewStock: newStock}
}

func (e *StockChanged) EventTopic() Topic {
	return TopicStockChanged
}
