package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/p-astudillo/nifes-strucs/internal/app"
	"github.com/p-astudillo/nifes-strucs/internal/store"
	"github.com/p-astudillo/nifes-strucs/pkg/snap"
)

const defaultModelPath = "model.db"

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path := defaultModelPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	modelStore, err := store.Open(path, log)
	if err != nil {
		log.Error("open model", "path", path, "error", err)
		os.Exit(1)
	}
	defer modelStore.Close()

	a := fyneapp.New()
	w := a.NewWindow("Strucs - Structural Modeler")

	viewport, err := app.NewViewport(modelStore, log)
	if err != nil {
		log.Error("load model", "error", err)
		os.Exit(1)
	}

	statusLabel := widget.NewLabel("")
	viewport.SetOnStatus(statusLabel.SetText)
	viewport.SetOnError(func(err error) {
		dialog.ShowError(err, w)
	})

	w.SetContent(container.NewBorder(
		nil,         // top
		statusLabel, // bottom
		nil,         // left
		buildSidePanel(viewport), // right
		viewport,    // center
	))

	w.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		switch event.Name {
		case fyne.KeyEscape:
			viewport.CancelDrawing()
		case fyne.KeyD:
			viewport.ToggleDrawing()
		case fyne.KeyC:
			viewport.ToggleContinuous()
		}
	})

	reload := func() {
		fyne.Do(func() {
			if err := viewport.Reload(context.Background()); err != nil {
				log.Warn("reload failed", "error", err)
				return
			}
			viewport.Rerender()
		})
	}

	// mutations through this process, e.g. commits from the viewport
	modelStore.SetOnChange(reload)

	// pick up external edits to the model database
	watcher, err := app.WatchModel(path, 250*time.Millisecond, reload)
	if err != nil {
		log.Warn("model watch unavailable", "error", err)
	} else {
		defer watcher.Close()
	}

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func buildSidePanel(viewport *app.Viewport) fyne.CanvasObject {
	resolver := viewport.Resolver()

	drawCheck := widget.NewCheck("Drawing mode (D)", func(bool) {
		viewport.ToggleDrawing()
	})
	chainCheck := widget.NewCheck("Chained drawing (C)", func(bool) {
		viewport.ToggleContinuous()
	})

	snapCheck := widget.NewCheck("Snapping", func(enabled bool) {
		resolver.SetEnabled(enabled)
	})
	snapCheck.SetChecked(resolver.Config().Enabled)

	typeChecks := make([]fyne.CanvasObject, 0, len(snap.AllCandidateTypes()))
	for _, t := range snap.AllCandidateTypes() {
		snapType := t
		check := widget.NewCheck(snapType.String(), func(enabled bool) {
			resolver.SetTypeEnabled(snapType, enabled)
		})
		check.SetChecked(resolver.Config().Types[snapType])
		typeChecks = append(typeChecks, check)
	}

	thresholdEntry := widget.NewEntry()
	thresholdEntry.SetText(fmt.Sprintf("%g", resolver.Config().Threshold))
	thresholdEntry.OnSubmitted = func(text string) {
		value, err := strconv.ParseFloat(text, 64)
		if err == nil {
			err = resolver.SetThreshold(value)
		}
		if err != nil {
			thresholdEntry.SetText(fmt.Sprintf("%g", resolver.Config().Threshold))
		}
	}

	spacingEntry := widget.NewEntry()
	spacingEntry.SetText(fmt.Sprintf("%g", resolver.Config().GridSpacing))
	spacingEntry.OnSubmitted = func(text string) {
		value, err := strconv.ParseFloat(text, 64)
		if err == nil {
			err = resolver.SetGridSpacing(value)
		}
		if err != nil {
			spacingEntry.SetText(fmt.Sprintf("%g", resolver.Config().GridSpacing))
		}
	}

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• D toggles drawing mode\n" +
			"• Click to anchor, click again to commit\n" +
			"• C chains segments\n" +
			"• Esc cancels the current segment\n" +
			"• Drag to rotate, scroll to zoom",
	)
	instructions.Wrapping = fyne.TextWrapWord

	items := []fyne.CanvasObject{
		widget.NewLabel("Drawing:"),
		drawCheck,
		chainCheck,
		widget.NewSeparator(),
		widget.NewLabel("Snap targets:"),
		snapCheck,
	}
	items = append(items, typeChecks...)
	items = append(items,
		widget.NewSeparator(),
		widget.NewLabel("Snap threshold:"),
		thresholdEntry,
		widget.NewLabel("Grid spacing:"),
		spacingEntry,
		widget.NewSeparator(),
		instructions,
	)

	panel := container.NewVScroll(container.NewVBox(items...))
	panel.SetMinSize(fyne.NewSize(260, 0))
	return panel
}
