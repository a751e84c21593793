// Package app hosts the drawing engine in a Fyne viewport: it renders the
// model, feeds pointer events to the snap resolver and drawing controller,
// and refreshes the snap snapshot whenever the model changes.
package app

import (
	"context"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/p-astudillo/nifes-strucs/pkg/coords"
	"github.com/p-astudillo/nifes-strucs/pkg/drawing"
	"github.com/p-astudillo/nifes-strucs/pkg/geometry"
	"github.com/p-astudillo/nifes-strucs/pkg/model"
	"github.com/p-astudillo/nifes-strucs/pkg/snap"
)

// gridExtent is how many grid cells the working-plane grid spans in each
// direction from the origin
const gridExtent = 12

// snapColors is the fixed visual affordance per candidate type
var snapColors = map[snap.CandidateType]color.Color{
	snap.Node:          color.RGBA{R: 230, G: 60, B: 60, A: 255},
	snap.Endpoint:      color.RGBA{R: 240, G: 150, B: 40, A: 255},
	snap.Midpoint:      color.RGBA{R: 230, G: 210, B: 50, A: 255},
	snap.Perpendicular: color.RGBA{R: 70, G: 120, B: 240, A: 255},
	snap.Intersection:  color.RGBA{R: 200, G: 70, B: 220, A: 255},
	snap.Grid:          color.RGBA{R: 150, G: 150, B: 150, A: 255},
}

// Viewport renders the structural model and turns pointer input into snap
// queries and drawing picks
type Viewport struct {
	widget.BaseWidget

	store      model.Store
	camera     *Camera
	resolver   *snap.Resolver
	controller *drawing.Controller
	session    drawing.Session
	log        *slog.Logger

	points    []model.Point
	elements  []model.Element
	positions map[model.PointID]geometry.Vector3 // render space

	lines      []*canvas.Line
	markers    []*canvas.Circle
	activeSnap *snap.Candidate

	dragStart  *fyne.Position
	isDragging bool
	width      float64
	height     float64

	// workingHeight is the render-space height of the drawing plane
	workingHeight float64

	onStatus func(string)
	onError  func(error)
}

// NewViewport creates a viewport over the given model store
func NewViewport(store model.Store, log *slog.Logger) (*Viewport, error) {
	if log == nil {
		log = slog.Default()
	}
	v := &Viewport{
		store:      store,
		resolver:   snap.NewResolver(),
		controller: drawing.NewController(store),
		log:        log,
		positions:  make(map[model.PointID]geometry.Vector3),
	}
	if err := v.Reload(context.Background()); err != nil {
		return nil, err
	}

	bbox := geometry.NewBoundingBox()
	for _, pos := range v.positions {
		bbox.Extend(pos)
	}
	v.camera = NewCamera(bbox)

	v.ExtendBaseWidget(v)
	return v, nil
}

// Resolver exposes the snap resolver for configuration controls
func (v *Viewport) Resolver() *snap.Resolver {
	return v.resolver
}

// Session returns the current drawing session value
func (v *Viewport) Session() drawing.Session {
	return v.session
}

// SetOnStatus registers a callback for status line updates
func (v *Viewport) SetOnStatus(fn func(string)) {
	v.onStatus = fn
}

// SetOnError registers a callback for surfaced engine errors
func (v *Viewport) SetOnError(fn func(error)) {
	v.onError = fn
}

// Reload replaces the render and snap snapshots from the store. Called on
// startup and whenever the model-change feed fires, so a committed point is
// snappable on the next frame.
func (v *Viewport) Reload(ctx context.Context) error {
	points, err := v.store.ListPoints(ctx)
	if err != nil {
		return err
	}
	elements, err := v.store.ListElements(ctx)
	if err != nil {
		return err
	}

	positions := make(map[model.PointID]geometry.Vector3, len(points))
	for _, p := range points {
		positions[p.ID] = coords.ToRender(p.Position)
	}

	v.points = points
	v.elements = elements
	v.positions = positions
	v.resolver.SetPoints(points)
	v.resolver.SetElements(elements)
	return nil
}

// Rerender rebuilds the scene at the current size. Called after an
// external reload since only Render regenerates the canvas objects.
func (v *Viewport) Rerender() {
	v.Render(v.width, v.height)
}

// ToggleDrawing flips drawing mode on or off
func (v *Viewport) ToggleDrawing() {
	v.session = v.controller.Toggle(v.session)
	v.syncAnchor()
	v.updateStatus()
	v.Render(v.width, v.height)
}

// ToggleContinuous flips chained drawing mode
func (v *Viewport) ToggleContinuous() {
	v.session.Continuous = !v.session.Continuous
	v.updateStatus()
}

// CancelDrawing discards the current anchor
func (v *Viewport) CancelDrawing() {
	v.session = v.controller.Cancel(v.session)
	v.syncAnchor()
	v.updateStatus()
	v.Render(v.width, v.height)
}

// MouseIn implements desktop.Hoverable
func (v *Viewport) MouseIn(event *desktop.MouseEvent) {
	v.MouseMoved(event)
}

// MouseMoved feeds the pointer position through the snap resolver and the
// controller's live preview
func (v *Viewport) MouseMoved(event *desktop.MouseEvent) {
	ground, ok := v.groundAt(event.Position)
	if !ok {
		v.activeSnap = nil
		return
	}
	v.activeSnap = v.resolver.FindSnap(ground)

	effective := ground
	if v.activeSnap != nil {
		effective = v.activeSnap.Position
	}
	v.session = v.controller.PointerMove(v.session, effective)
	v.Render(v.width, v.height)
}

// MouseOut implements desktop.Hoverable
func (v *Viewport) MouseOut() {
	v.activeSnap = nil
	v.Render(v.width, v.height)
}

// Tapped handles pick events
func (v *Viewport) Tapped(event *fyne.PointEvent) {
	if v.isDragging {
		return
	}
	ground, ok := v.groundAt(event.Position)
	if !ok {
		return
	}

	session, commit, err := v.controller.Pick(context.Background(), v.session, ground, v.activeSnap)
	v.session = session
	v.syncAnchor()
	if err != nil {
		v.log.Warn("commit failed", "error", err)
		if v.onError != nil {
			v.onError(err)
		}
	}
	if commit != nil {
		v.log.Info("element committed",
			"element", commit.ElementID,
			"start", commit.StartPointID,
			"end", commit.EndPointID)
		if err := v.Reload(context.Background()); err != nil {
			v.log.Warn("snapshot refresh failed", "error", err)
		}
	}
	v.updateStatus()
	v.Render(v.width, v.height)
}

// Dragged rotates the camera
func (v *Viewport) Dragged(event *fyne.DragEvent) {
	if v.dragStart != nil {
		deltaX := event.Position.X - v.dragStart.X
		deltaY := event.Position.Y - v.dragStart.Y

		v.camera.Rotate(float64(-deltaY)*0.01, float64(deltaX)*0.01)
		v.Render(v.width, v.height)
	}
	v.dragStart = &event.Position
	v.isDragging = true
}

// DragEnd ends a camera rotation
func (v *Viewport) DragEnd() {
	v.dragStart = nil
	v.isDragging = false
}

// Scrolled zooms the camera
func (v *Viewport) Scrolled(event *fyne.ScrollEvent) {
	delta := -float64(event.Scrolled.DY) * 0.001
	v.camera.Zoom(delta)
	v.Render(v.width, v.height)
}

// groundAt maps a screen position to the render-space working plane
func (v *Viewport) groundAt(pos fyne.Position) (geometry.Vector3, bool) {
	if v.width == 0 || v.height == 0 {
		return geometry.Vector3{}, false
	}
	return v.camera.GroundPoint(float64(pos.X), float64(pos.Y), v.width, v.height, v.workingHeight)
}

// syncAnchor keeps the resolver's perpendicular reference in step with the
// drawing session
func (v *Viewport) syncAnchor() {
	if v.session.State == drawing.Active {
		v.resolver.SetAnchor(coords.ToRender(v.session.Anchor))
	} else {
		v.resolver.ClearAnchor()
	}
}

func (v *Viewport) updateStatus() {
	if v.onStatus == nil {
		return
	}
	mode := "off"
	if v.session.ModeOn {
		mode = "on"
		if v.session.Continuous {
			mode = "on, chained"
		}
	}
	state := "click to set the anchor"
	if v.session.State == drawing.Active {
		state = "click to place the element end"
	}
	if !v.session.ModeOn {
		state = "press D to start drawing"
	}
	v.onStatus("Drawing " + mode + " - " + state)
}

// Render rebuilds the viewport's canvas objects
func (v *Viewport) Render(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width = width
	v.height = height

	v.lines = v.lines[:0]
	v.markers = v.markers[:0]

	v.renderGrid()
	v.renderElements()
	v.renderPreview()
	v.renderPoints()
	v.renderSnapIndicator()

	v.Refresh()
}

func (v *Viewport) renderGrid() {
	spacing := v.resolver.Config().GridSpacing
	extent := spacing * gridExtent
	gridColor := color.RGBA{R: 60, G: 60, B: 65, A: 255}

	for i := -gridExtent; i <= gridExtent; i++ {
		offset := float64(i) * spacing
		v.addLine(
			geometry.NewVector3(offset, v.workingHeight, -extent),
			geometry.NewVector3(offset, v.workingHeight, extent),
			gridColor, 1)
		v.addLine(
			geometry.NewVector3(-extent, v.workingHeight, offset),
			geometry.NewVector3(extent, v.workingHeight, offset),
			gridColor, 1)
	}
}

func (v *Viewport) renderElements() {
	elementColor := color.RGBA{R: 110, G: 190, B: 255, A: 255}
	for _, e := range v.elements {
		start, okStart := v.positions[e.StartPointID]
		end, okEnd := v.positions[e.EndPointID]
		if !okStart || !okEnd {
			continue
		}
		v.addLine(start, end, elementColor, 2)
	}
}

func (v *Viewport) renderPreview() {
	preview, ok := v.session.Preview()
	if !ok {
		return
	}
	previewColor := color.RGBA{R: 255, G: 255, B: 255, A: 180}
	v.addLine(coords.ToRender(preview.Start), coords.ToRender(preview.End), previewColor, 1)
}

func (v *Viewport) renderPoints() {
	pointColor := color.RGBA{R: 235, G: 235, B: 235, A: 255}
	for _, pos := range v.positions {
		v.addMarker(pos, 7, pointColor, nil)
	}
}

func (v *Viewport) renderSnapIndicator() {
	if v.activeSnap == nil {
		return
	}
	fill, ok := snapColors[v.activeSnap.Type]
	if !ok {
		fill = color.White
	}
	v.addMarker(v.activeSnap.Position, 12, fill, color.White)
}

func (v *Viewport) addLine(start, end geometry.Vector3, c color.Color, strokeWidth float32) {
	x1, y1, z1 := v.camera.Project(start, v.width, v.height)
	x2, y2, z2 := v.camera.Project(end, v.width, v.height)
	if z1 <= 0.011 && z2 <= 0.011 {
		return // behind the camera
	}

	line := canvas.NewLine(c)
	line.StrokeWidth = strokeWidth
	line.Position1 = fyne.NewPos(float32(x1), float32(y1))
	line.Position2 = fyne.NewPos(float32(x2), float32(y2))
	v.lines = append(v.lines, line)
}

func (v *Viewport) addMarker(pos geometry.Vector3, size float32, fill, stroke color.Color) {
	x, y, z := v.camera.Project(pos, v.width, v.height)
	if z <= 0.011 {
		return
	}

	marker := canvas.NewCircle(fill)
	if stroke != nil {
		marker.StrokeColor = stroke
		marker.StrokeWidth = 2
	}
	marker.Resize(fyne.NewSize(size, size))
	marker.Move(fyne.NewPos(float32(x)-size/2, float32(y)-size/2))
	v.markers = append(v.markers, marker)
}

// CreateRenderer implements fyne.Widget
func (v *Viewport) CreateRenderer() fyne.WidgetRenderer {
	return &viewportRenderer{viewport: v}
}

// viewportRenderer implements fyne.WidgetRenderer
type viewportRenderer struct {
	viewport *Viewport
	objects  []fyne.CanvasObject
}

func (r *viewportRenderer) Layout(size fyne.Size) {
	r.viewport.Render(float64(size.Width), float64(size.Height))
}

func (r *viewportRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 360)
}

func (r *viewportRenderer) Refresh() {
	objects := make([]fyne.CanvasObject, 0, len(r.viewport.lines)+len(r.viewport.markers))
	for _, line := range r.viewport.lines {
		objects = append(objects, line)
	}
	for _, marker := range r.viewport.markers {
		objects = append(objects, marker)
	}
	r.objects = objects

	canvas.Refresh(r.viewport)
}

func (r *viewportRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewportRenderer) Destroy() {}
