package citation

import (
	"math"
	"sync"
	"time"

	"github.com/vytor/studybook/internal/models"
)

// DefaultSettleDelay is how long the viewer waits for layout before scrolling.
const DefaultSettleDelay = 300 * time.Millisecond

// ViewState is the citation state of one notebook view.
type ViewState int

const (
	NoCitation ViewState = iota
	SourceListSelection
	RealCitation
)

func (s ViewState) String() string {
	switch s {
	case NoCitation:
		return "no_citation"
	case SourceListSelection:
		return "source_list_selection"
	case RealCitation:
		return "real_citation"
	default:
		return "unknown"
	}
}

func (s ViewState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const absentLine = math.MinInt

// Key identifies a citation for re-triggering side effects. Two citations
// with equal keys never re-fire a scroll.
type Key struct {
	CitationID int
	LinesFrom  int
	LinesTo    int
	SourceID   string
}

// KeyOf derives the key of c. A nil citation has the zero key.
func KeyOf(c *models.Citation) Key {
	if c == nil {
		return Key{}
	}
	k := Key{CitationID: c.CitationID, LinesFrom: absentLine, LinesTo: absentLine, SourceID: c.SourceID}
	if c.ChunkLinesFrom != nil {
		k.LinesFrom = *c.ChunkLinesFrom
	}
	if c.ChunkLinesTo != nil {
		k.LinesTo = *c.ChunkLinesTo
	}
	return k
}

// ScrollDirective asks the client to center AnchorLine in the container.
type ScrollDirective struct {
	SourceID   string    `json:"source_id"`
	CitationID int       `json:"citation_id"`
	AnchorLine int       `json:"anchor_line"`
	Behavior   string    `json:"behavior"`
	IssuedAt   time.Time `json:"issued_at"`
}

// Top is the container offset for an anchor element measured by the client.
func (d ScrollDirective) Top(offsetTop, elementHeight, viewportHeight float64) float64 {
	return CenterScrollTop(offsetTop, elementHeight, viewportHeight)
}

type stopFunc func() bool

type scheduler func(d time.Duration, f func()) stopFunc

func afterFunc(d time.Duration, f func()) stopFunc {
	return time.AfterFunc(d, f).Stop
}

// Viewer tracks the active citation of one notebook view and issues scroll
// directives once the settle delay after a highlighted citation elapses.
type Viewer struct {
	delay    time.Duration
	schedule scheduler
	now      func() time.Time
	onScroll func(ScrollDirective)
	content  ContentFunc

	mu        sync.Mutex
	state     ViewState
	citation  *models.Citation
	key       Key
	guideOpen bool
	scroll    *ScrollDirective
	stop      stopFunc
	seq       uint64
}

type ViewerOption func(*Viewer)

func WithSettleDelay(d time.Duration) ViewerOption {
	return func(v *Viewer) {
		if d >= 0 {
			v.delay = d
		}
	}
}

// WithScrollHandler registers f to be called, outside the viewer lock,
// whenever a scroll directive is issued.
func WithScrollHandler(f func(ScrollDirective)) ViewerOption {
	return func(v *Viewer) {
		v.onScroll = f
	}
}

// ContentFunc returns the processed content of a source, or false when the
// source is unknown or not ready.
type ContentFunc func(sourceID string) (string, bool)

// WithContent lets the viewer check, before issuing a scroll, that the
// highlighted range lands on a rendered line of the source.
func WithContent(f ContentFunc) ViewerOption {
	return func(v *Viewer) {
		v.content = f
	}
}

func NewViewer(opts ...ViewerOption) *Viewer {
	v := &Viewer{delay: DefaultSettleDelay, schedule: afterFunc, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SelectSource shows a source picked from the source list. The synthetic
// citation never highlights, and the source guide opens.
func (v *Viewer) SelectSource(src models.Source) bool {
	c := &models.Citation{
		CitationID:  -1,
		SourceID:    src.ID,
		SourceTitle: src.Title,
		SourceType:  src.Type,
		ChunkIndex:  0,
		Excerpt:     "Viewing source content",
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.setLocked(c) {
		return false
	}
	v.state = SourceListSelection
	v.guideOpen = true
	return true
}

// OpenCitation activates c. It returns false, with no side effect, when c has
// the same key as the active citation. A highlighted citation closes the
// source guide and schedules a scroll.
func (v *Viewer) OpenCitation(c models.Citation) bool {
	if c.IsSourceListSelection() {
		return v.SelectSource(models.Source{ID: c.SourceID, Title: c.SourceTitle, Type: c.SourceType})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.setLocked(&c) {
		return false
	}
	v.state = RealCitation

	r, ok := HighlightRange(&c)
	if !ok {
		return true
	}
	v.guideOpen = false
	seq := v.seq
	directive := ScrollDirective{
		SourceID:   c.SourceID,
		CitationID: c.CitationID,
		AnchorLine: r.Start,
		Behavior:   "smooth",
	}
	v.stop = v.schedule(v.delay, func() { v.fire(seq, r, directive) })
	return true
}

// Close clears the active citation and closes the source guide.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
	v.guideOpen = false
}

// BackToSources clears the active citation, leaving the guide as it is.
func (v *Viewer) BackToSources() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
}

func (v *Viewer) SetGuideOpen(open bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.guideOpen = open
}

func (v *Viewer) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Citation returns a copy of the active citation, or nil.
func (v *Viewer) Citation() *models.Citation {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.citation == nil {
		return nil
	}
	c := *v.citation
	return &c
}

func (v *Viewer) GuideOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.guideOpen
}

// Scroll returns the directive issued for the active citation, if any.
func (v *Viewer) Scroll() *ScrollDirective {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.scroll == nil {
		return nil
	}
	d := *v.scroll
	return &d
}

// ScrollPending reports whether a scroll is waiting on the settle delay.
func (v *Viewer) ScrollPending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stop != nil && v.scroll == nil
}

// setLocked swaps in c when its key differs from the active one, cancelling
// any pending scroll.
func (v *Viewer) setLocked(c *models.Citation) bool {
	k := KeyOf(c)
	if v.citation != nil && k == v.key {
		return false
	}
	v.cancelLocked()
	v.citation = c
	v.key = k
	return true
}

func (v *Viewer) clearLocked() {
	v.cancelLocked()
	v.citation = nil
	v.key = Key{}
	v.state = NoCitation
}

func (v *Viewer) cancelLocked() {
	if v.stop != nil {
		v.stop()
		v.stop = nil
	}
	v.scroll = nil
	v.seq++
}

// anchored reports whether r highlights a rendered line of content, with the
// anchor on r.Start.
func anchored(content string, r Range) bool {
	return Anchor(RenderLines(content, r, true)) == r.Start
}

func (v *Viewer) fire(seq uint64, r Range, d ScrollDirective) {
	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		return
	}
	lookup := v.content
	v.mu.Unlock()

	if lookup != nil {
		content, ok := lookup(d.SourceID)
		if !ok || !anchored(content, r) {
			v.mu.Lock()
			if seq == v.seq {
				v.stop = nil
			}
			v.mu.Unlock()
			return
		}
	}

	v.mu.Lock()
	if seq != v.seq {
		v.mu.Unlock()
		return
	}
	d.IssuedAt = v.now()
	v.scroll = &d
	handler := v.onScroll
	v.mu.Unlock()

	if handler != nil {
		handler(d)
	}
}

// ViewModel is everything a client needs to draw the source viewer.
type ViewModel struct {
	State     ViewState        `json:"state"`
	Citation  *models.Citation `json:"citation,omitempty"`
	Icon      string           `json:"icon,omitempty"`
	Source    Resolved         `json:"source"`
	Range     Range            `json:"range"`
	Lines     []Line           `json:"lines,omitempty"`
	Empty     bool             `json:"empty"`
	GuideOpen bool             `json:"guide_open"`
	Scroll    *ScrollDirective `json:"scroll,omitempty"`
}

// View renders the active citation against a notebook's sources. A missing or
// unprocessed source yields an empty view rather than an error.
func (v *Viewer) View(sources []models.Source) ViewModel {
	v.mu.Lock()
	var c *models.Citation
	if v.citation != nil {
		cp := *v.citation
		c = &cp
	}
	vm := ViewModel{State: v.state, Citation: c, GuideOpen: v.guideOpen}
	if v.scroll != nil {
		d := *v.scroll
		vm.Scroll = &d
	}
	v.mu.Unlock()

	vm.Range = NoHighlight
	if c == nil {
		vm.Empty = true
		return vm
	}
	vm.Icon = Icon(c.SourceType)
	vm.Source = Resolve(sources, c)
	r, ok := HighlightRange(c)
	if ok {
		vm.Range = r
	}
	vm.Lines = RenderLines(vm.Source.Content, r, ok)
	vm.Empty = vm.Source.Empty()
	if vm.Scroll != nil && (!ok || Anchor(vm.Lines) != r.Start) {
		vm.Scroll = nil
	}
	return vm
}
