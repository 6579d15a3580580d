// Package main is the entry point for the inventory application.
package main

import (
	"context"
	"os"

	"inventario-go/application"
	"inventario-go/core/eventbus"
	"inventario-go/infrastructure/config"
	"inventario-go/infrastructure/logging"
	"inventario-go/presentation"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	// Load configuration; a missing file just means defaults.
	appCfg, err := config.Load(config.DefaultPath())
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logCfg, err := appCfg.LogConfig()
	if err != nil {
		os.Stderr.WriteString("Invalid logging configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logging (dev: console only, prod: rotating file)
	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("Starting inventario", "company", appCfg.Company.Name)

	ctx := context.Background()

	// Register service factories. Nothing opens until first use.
	reg, err := application.Bootstrap(ctx, &application.BootstrapConfig{
		Database: appCfg.DatabaseConfigOrDefault(),
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to bootstrap services", "error", err)
		os.Exit(1)
	}
	defer reg.Shutdown()

	services, err := application.ResolveServices(reg)
	if err != nil {
		logger.Error("Failed to resolve services", "error", err)
		os.Exit(1)
	}

	// Initialize event bus
	eventBus := eventbus.New(logger)
	defer eventBus.Close()

	// Initialize mediator wiring product lookup to movement entry
	mediator := application.NewProductMovementMediator(&application.MediatorConfig{
		EventBus:        eventBus,
		ProductService:  services.Products,
		CategoryService: services.Categories,
		MovementService: services.Movements,
		Logger:          logger,
	})
	defer mediator.Close()

	// Initialize UI event bridge
	bridge := presentation.NewUIEventBridge(&presentation.BridgeConfig{
		EventBus: eventBus,
		Logger:   logger,
	})
	defer bridge.Close()

	// Initialize Fyne app
	fyneApp := fyneapp.New()

	// Initialize main window
	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:         fyneApp,
		Bridge:      bridge,
		Logger:      logger,
		Responsible: appCfg.Company.Responsible,
		CompanyName: appCfg.Company.Name,
	})
	defer mainWindow.Cleanup()

	// Show and run
	mainWindow.Show()
	fyneApp.Run()

	logger.Info("Application shutdown complete")
}
