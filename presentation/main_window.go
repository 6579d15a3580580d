package presentation

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"inventario-go/core/event"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the main application window: product lookup on the left,
// movement entry on the right.
type MainWindow struct {
	window fyne.Window
	bridge *UIEventBridge
	logger *slog.Logger

	// UI components - lookup panel
	scanEntry   *widget.Entry
	searchEntry *widget.Entry
	resultList  *widget.List

	// UI components - movement form
	selectedLabel *widget.Label
	typeSelect    *widget.Select
	quantityEntry *widget.Entry
	registerBtn   *widget.Button
	clearBtn      *widget.Button
	statusLabel   *widget.Label

	// Data
	results   []event.ProductSummary
	resultsMu sync.RWMutex
	selected  *event.ProductSummary

	responsible string

	cleanupOnce sync.Once
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App         fyne.App
	Bridge      *UIEventBridge
	Logger      *slog.Logger
	Responsible string
	CompanyName string
}

// NewMainWindow creates a new main window.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	title := "Inventario"
	if cfg.CompanyName != "" {
		title = fmt.Sprintf("Inventario - %s", cfg.CompanyName)
	}

	w := &MainWindow{
		window:      cfg.App.NewWindow(title),
		bridge:      cfg.Bridge,
		logger:      cfg.Logger,
		responsible: cfg.Responsible,
	}

	w.init()
	w.setupEventCallbacks()

	w.window.SetOnClosed(func() {
		w.Cleanup()
	})

	return w
}

func (w *MainWindow) init() {
	// Lookup panel
	w.scanEntry = widget.NewEntry()
	w.scanEntry.PlaceHolder = "Scan barcode"
	w.scanEntry.OnSubmitted = func(code string) {
		if code == "" {
			return
		}
		w.bridge.Scan(code)
		w.scanEntry.SetText("")
	}

	w.searchEntry = widget.NewEntry()
	w.searchEntry.PlaceHolder = "Search by name or code"
	w.searchEntry.OnSubmitted = func(term string) {
		w.bridge.SearchProducts(term)
	}

	w.resultList = widget.NewList(
		func() int {
			w.resultsMu.RLock()
			defer w.resultsMu.RUnlock()
			return len(w.results)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			w.resultsMu.RLock()
			defer w.resultsMu.RUnlock()
			if i < 0 || i >= len(w.results) {
				return
			}
			p := w.results[i]
			o.(*widget.Label).SetText(fmt.Sprintf("%s  %s  (stock %d)", p.Code, p.Name, p.Stock))
		},
	)
	w.resultList.OnSelected = func(i widget.ListItemID) {
		w.resultsMu.RLock()
		defer w.resultsMu.RUnlock()
		if i < 0 || i >= len(w.results) {
			return
		}
		w.bridge.SelectProduct(w.results[i])
	}

	lookup := container.NewBorder(
		container.NewVBox(w.scanEntry, w.searchEntry),
		nil, nil, nil,
		w.resultList,
	)

	// Movement form
	w.selectedLabel = widget.NewLabel("No product selected")
	w.typeSelect = widget.NewSelect([]string{"ENTRADA", "VENTA", "AJUSTE"}, func(s string) {})
	w.typeSelect.PlaceHolder = "Movement type"
	w.quantityEntry = widget.NewEntry()
	w.quantityEntry.PlaceHolder = "Quantity"
	w.registerBtn = widget.NewButtonWithIcon("Register", theme.ConfirmIcon(), w.handleRegister)
	w.clearBtn = widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), w.handleClear)
	w.statusLabel = widget.NewLabel("")

	form := container.NewVBox(
		w.selectedLabel,
		w.typeSelect,
		w.quantityEntry,
		container.NewHBox(w.registerBtn, w.clearBtn),
		w.statusLabel,
	)

	split := container.NewHSplit(lookup, form)
	split.SetOffset(0.55)

	w.window.SetContent(split)
	w.window.Resize(fyne.NewSize(820, 520))
}

func (w *MainWindow) setupEventCallbacks() {
	if w.bridge == nil {
		return
	}

	w.bridge.SetCallbacks(&UICallbacks{
		OnSearchResults: func(term string, results []event.ProductSummary) {
			// UI update must run on main thread
			fyne.Do(func() {
				w.resultsMu.Lock()
				w.results = results
				w.resultsMu.Unlock()
				w.resultList.UnselectAll()
				w.resultList.Refresh()
				w.setStatus(fmt.Sprintf("%d result(s) for %q", len(results), term))
			})
		},
		OnProductSelected: func(p event.ProductSummary, auto bool) {
			w.logger.Debug("Product selected", "product_id", p.ID, "auto", auto)
		},
		OnQuantityFocus: func(productID int64) {
			// QuantityFocus follows a validated selection; the mediator holds
			// the authoritative copy but the label only needs the summary.
			fyne.Do(func() {
				w.refreshSelection(productID)
				w.window.Canvas().Focus(w.quantityEntry)
			})
		},
		OnMovementRegistered: func(movementID string, productID int64, newStock int) {
			fyne.Do(func() {
				w.setStatus(fmt.Sprintf("Movement %s registered, stock now %d", movementID, newStock))
				w.quantityEntry.SetText("")
			})
		},
		OnMovementFailed: func(productID int64, reason string) {
			fyne.Do(func() {
				w.setStatus("Movement rejected: " + reason)
			})
		},
		OnStockChanged: func(productID int64, delta, newStock int) {
			fyne.Do(func() {
				w.updateResultStock(productID, newStock)
			})
		},
		OnValidationFailed: func(message string, details []string) {
			fyne.Do(func() {
				w.setStatus(message)
			})
		},
	})
}

// refreshSelection updates the form header for productID using the cached
// search results. Runs on the UI thread.
func (w *MainWindow) refreshSelection(productID int64) {
	w.resultsMu.RLock()
	defer w.resultsMu.RUnlock()

	for i := range w.results {
		if w.results[i].ID == productID {
			w.selected = &w.results[i]
			w.selectedLabel.SetText(fmt.Sprintf("%s - %s (stock %d)",
				w.results[i].Code, w.results[i].Name, w.results[i].Stock))
			return
		}
	}

	// Scanned products never pass through the results list.
	w.selected = &event.ProductSummary{ID: productID}
	w.selectedLabel.SetText(fmt.Sprintf("Product #%d", productID))
}

func (w *MainWindow) updateResultStock(productID int64, newStock int) {
	w.resultsMu.Lock()
	for i := range w.results {
		if w.results[i].ID == productID {
			w.results[i].Stock = newStock
		}
	}
	w.resultsMu.Unlock()
	w.resultList.Refresh()

	if w.selected != nil && w.selected.ID == productID {
		w.selected.Stock = newStock
	}
}

func (w *MainWindow) handleRegister() {
	if w.selected == nil {
		w.setStatus("Select a product first")
		return
	}
	if w.typeSelect.Selected == "" {
		w.setStatus("Pick a movement type")
		return
	}

	quantity, err := strconv.Atoi(w.quantityEntry.Text)
	if err != nil {
		dialog.ShowError(fmt.Errorf("quantity must be a whole number"), w.window)
		return
	}

	w.bridge.RegisterMovement(w.selected.ID, w.typeSelect.Selected, quantity, w.responsible)
}

func (w *MainWindow) handleClear() {
	w.selected = nil
	w.selectedLabel.SetText("No product selected")
	w.quantityEntry.SetText("")
	w.typeSelect.ClearSelected()
	w.statusLabel.SetText("")
	w.resultList.UnselectAll()
	w.bridge.ClearForm()
}

func (w *MainWindow) setStatus(msg string) {
	w.statusLabel.SetText(msg)
}

// Public methods

// Show displays the main window.
func (w *MainWindow) Show() {
	w.window.Show()
}

// Cleanup releases resources.
func (w *MainWindow) Cleanup() {
	w.cleanupOnce.Do(func() {
		if w.bridge != nil {
			w.bridge.Close()
		}
	})
}
