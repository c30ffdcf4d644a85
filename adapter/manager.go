package adapter

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/openretro/bridge"
)

// source is a tag-to-function dispatch entry for one Bluetooth device type.
type source struct {
	toGeneric     func(d *Data, c *Ctrl)
	fbFromGeneric func(fb *Fb, d *Data)
}

// target is the dispatch entry for one wired system.
type target struct {
	initBuffer  func(w *WiredData)
	metaInit    func(c *Ctrl)
	fromGeneric func(c *Ctrl, w *WiredData)
	fbToGeneric func(m *Manager, raw []byte, fb *Fb)
}

var sources = map[DevType]source{
	XB1:         {xb1ToGeneric, xb1FbFromGeneric},
	XB1Adaptive: {xb1ToGeneric, xb1FbFromGeneric},
	PS4:         {ps4ToGeneric, ps4FbFromGeneric},
	SwitchPro:   {swToGeneric, swFbFromGeneric},
	Wii:         {wiiToGeneric, wiiFbFromGeneric},
	HIDGeneric:  {hidToGeneric, hidFbFromGeneric},
}

var targets = map[System]target{
	Dreamcast: {dcInitBuffer, dcMetaInit, dcFromGeneric, dcFbToGeneric},
	JVS:       {jvsInitBuffer, jvsMetaInit, jvsFromGeneric, jvsFbToGeneric},
}

// Manager owns the wired side of the translation matrix: one output frame
// per wired port, the target metadata published into snapshots, and the
// rumble auto-stop timers.
type Manager struct {
	sys System
	tgt target
	log bridge.Logger

	mu     sync.Mutex
	wired  [WiredMaxDevices]WiredData
	meta   [WiredMaxDevices]Ctrl
	timers [WiredMaxDevices]*time.Timer

	// stopFn is invoked from the auto-stop timer when rumble must be forced
	// off for a wired port. The host routes a stop frame back through
	// BridgeFb from its feedback task.
	stopFn func(wiredID uint8)
}

// NewManager builds the wired state for the given system and initializes
// every port's frame to its neutral values.
func NewManager(sys System, log bridge.Logger) (*Manager, error) {
	tgt, ok := targets[sys]
	if !ok {
		return nil, errors.Errorf("unsupported wired system %d", int(sys))
	}

	m := &Manager{
		sys: sys,
		tgt: tgt,
		log: log,
	}
	for i := range m.wired {
		tgt.metaInit(&m.meta[i])
		tgt.initBuffer(&m.wired[i])
	}
	return m, nil
}

// System returns the wired system this manager encodes for.
func (m *Manager) System() System {
	return m.sys
}

// SetStopFunc registers the rumble auto-stop callback.
func (m *Manager) SetStopFunc(fn func(wiredID uint8)) {
	m.mu.Lock()
	m.stopFn = fn
	m.mu.Unlock()
}

// InitBuffer resets one wired port's frame to neutral.
func (m *Manager) InitBuffer(port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wired[port&3] = WiredData{}
	m.tgt.initBuffer(&m.wired[port&3])
}

// Output copies out the current wired frame for a port. The wired
// transmitter reads the latest snapshot; frames are never queued.
func (m *Manager) Output(port int, out []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copy(out, m.wired[port&3].Output[:])
}

// Bridge translates one raw input report into the wired frame of the owning
// port: source adapter to generic, axis scaling onto the target metadata,
// then target encode.
func (m *Manager) Bridge(d *Data) error {
	src, ok := sources[d.DevType]
	if !ok {
		src = sources[HIDGeneric]
	}

	var ctrl Ctrl
	src.toGeneric(d, &ctrl)

	port := d.DevID % WiredMaxDevices

	m.mu.Lock()
	defer m.mu.Unlock()

	mapped := mapToTarget(&ctrl, &m.meta[port])
	m.tgt.fromGeneric(mapped, &m.wired[port])
	return nil
}

// BridgeFb decodes a raw wired feedback frame, dedupes it against the port's
// current state and, on a state change, encodes the vendor output payload
// into d. Returns true when a payload was produced.
func (m *Manager) BridgeFb(raw []byte, d *Data) bool {
	if len(raw) == 0 {
		return false
	}

	var fb Fb
	m.tgt.fbToGeneric(m, raw, &fb)

	m.mu.Lock()
	w := &m.wired[fb.WiredID&3]
	if w.FbState == fb.State {
		m.mu.Unlock()
		return false
	}
	w.FbState = fb.State
	m.mu.Unlock()

	src, ok := sources[d.DevType]
	if !ok {
		src = sources[HIDGeneric]
	}
	src.fbFromGeneric(&fb, d)
	return d.OutputLen > 0
}

// fbStopTimerStart arms the one-shot rumble stop timer for a wired port.
// If the host stops renewing feedback, the timer forces the state back off.
func (m *Manager) fbStopTimerStart(wiredID uint8, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t := m.timers[wiredID&3]; t != nil {
		t.Stop()
	}
	id := wiredID & 3
	m.timers[id] = time.AfterFunc(d, func() {
		m.mu.Lock()
		fn := m.stopFn
		m.mu.Unlock()
		if fn != nil {
			fn(id)
		}
	})
}

// fbStopTimerStop disarms the rumble stop timer for a wired port.
func (m *Manager) fbStopTimerStop(wiredID uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t := m.timers[wiredID&3]; t != nil {
		t.Stop()
		m.timers[wiredID&3] = nil
	}
}

// mapToTarget rebases a source snapshot onto the target metadata: MapMask is
// the intersection of what the source provides and the target consumes, and
// axis values are rescaled to the target range with polarity correction.
func mapToTarget(c *Ctrl, tm *Ctrl) *Ctrl {
	out := &Ctrl{
		Mask: tm.Mask,
		Desc: tm.Desc,
		Btns: c.Btns,
	}
	for k := range out.MapMask {
		out.MapMask[k] = c.Mask[k] & tm.Mask[k]
	}

	for i := 0; i < MaxAxes; i++ {
		sm := c.Axes[i].Meta
		dm := tm.Axes[i].Meta
		if sm == nil || dm == nil {
			continue
		}
		if c.Desc[0]&AxisToBtnMask(i) == 0 || tm.Desc[0]&AxisToBtnMask(i) == 0 {
			continue
		}

		v := c.Axes[i].Value
		if sm.Polarity != dm.Polarity {
			v = -v
		}
		if sm.AbsMax != 0 && sm.AbsMax != dm.AbsMax {
			v = int32(int64(v) * int64(dm.AbsMax) / int64(sm.AbsMax))
		}

		out.Axes[i].Meta = dm
		out.Axes[i].Value = v
	}

	return out
}
