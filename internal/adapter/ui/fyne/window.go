package fyneui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/lucasvidela/visuales/internal/app"
	"github.com/lucasvidela/visuales/internal/domain"
)

// Keyboard mapping onto the drum notes, for playing without MIDI hardware.
var keyToNote = map[fyne.KeyName]int{
	fyne.KeyZ: 60, // kick
	fyne.KeyX: 62, // closed hat
	fyne.KeyC: 64, // tom 1
	fyne.KeyV: 65, // tom 2
}

// MainWindow is the application window: the rendering surface with a thin
// control strip underneath.
type MainWindow struct {
	window  fyne.Window
	app     *app.App
	surface *RasterSurface

	selector *widget.Select
	opacity  *widget.Slider
	status   *widget.Label
}

// NewMainWindow builds the window chrome around an already wired facade.
func NewMainWindow(fyneApp fyne.App, facade *app.App, surface *RasterSurface) *MainWindow {
	w := &MainWindow{
		window:  fyneApp.NewWindow("visuales"),
		app:     facade,
		surface: surface,
	}
	w.build()
	return w
}

func (w *MainWindow) build() {
	ids := make([]string, 0)
	names := make(map[string]string)
	for _, desc := range w.app.AvailablePresets() {
		ids = append(ids, desc.Name)
		names[desc.Name] = desc.ID
	}

	w.selector = widget.NewSelect(ids, func(name string) {
		if id, ok := names[name]; ok {
			if !w.app.ActivatePreset(id) {
				w.status.SetText(fmt.Sprintf("failed to activate %s", name))
			}
		}
	})
	w.selector.PlaceHolder = "Select preset"

	w.opacity = widget.NewSlider(0, 1)
	w.opacity.Step = 0.01
	w.opacity.Value = w.app.Opacity()
	w.opacity.OnChanged = func(value float64) {
		w.app.SetOpacity(value)
	}

	offButton := widget.NewButton("Off", func() {
		w.app.DeactivateCurrentPreset()
		w.selector.ClearSelected()
	})

	w.status = widget.NewLabel("")
	w.subscribeStatus()

	controls := container.NewBorder(nil, nil,
		container.NewHBox(w.selector, offButton),
		w.status,
		w.opacity)

	w.window.SetContent(container.NewBorder(nil, controls, nil, nil, w.surface.Raster()))
	w.window.Resize(fyne.NewSize(960, 600))

	// Drum keys go straight to the active preset.
	w.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if note, ok := keyToNote[ev.Name]; ok {
			w.app.HandleMIDI(domain.MIDIEvent{Note: note, Velocity: 100})
		}
	})

	w.window.SetCloseIntercept(func() {
		w.app.Shutdown()
		w.window.Close()
	})
}

// subscribeStatus mirrors runtime events into the status label.
// Handlers run on the publisher's goroutine, so UI mutations go through
// fyne.Do.
func (w *MainWindow) subscribeStatus() {
	w.app.Subscribe(domain.EventPresetActivated, func(event domain.Event) {
		if e, ok := event.(domain.PresetActivatedEvent); ok {
			fyne.Do(func() {
				w.status.SetText(e.Descriptor.Name)
			})
		}
	})
	w.app.Subscribe(domain.EventPresetDeactivated, func(event domain.Event) {
		fyne.Do(func() {
			w.status.SetText("")
		})
	})
	w.app.Subscribe(domain.EventPresetFaulted, func(event domain.Event) {
		if e, ok := event.(domain.PresetFaultedEvent); ok {
			fyne.Do(func() {
				w.status.SetText(fmt.Sprintf("preset %s faulted", e.PresetID))
				w.selector.ClearSelected()
			})
		}
	})
}

// ShowAndRun shows the window and enters the Fyne main loop.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}
