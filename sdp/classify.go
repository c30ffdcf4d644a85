package sdp

import (
	"io/ioutil"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
)

// Known vendor ids.
const (
	vidMicrosoft = 0x045E
	vidSony      = 0x054C
	vidNintendo  = 0x057E
)

type vidPid struct {
	vid, pid uint16
}

// Built-in classification. PID 0 matches any product of the vendor.
var builtinTypes = map[vidPid]adapter.DevType{
	{vidMicrosoft, 0x02E0}: adapter.XB1, // Xbox One S
	{vidMicrosoft, 0x02FD}: adapter.XB1,
	{vidMicrosoft, 0x0B05}: adapter.XB1, // Elite 2
	{vidMicrosoft, 0x0B0A}: adapter.XB1Adaptive,
	{vidMicrosoft, 0x0B13}: adapter.XB1, // Series X|S
	{vidMicrosoft, 0}:      adapter.XB1,
	{vidSony, 0x05C4}:      adapter.PS4,
	{vidSony, 0x09CC}:      adapter.PS4,
	{vidSony, 0}:           adapter.PS4,
	{vidNintendo, 0x2009}:  adapter.SwitchPro,
	{vidNintendo, 0x0306}:  adapter.Wii,
	{vidNintendo, 0x0330}:  adapter.Wii, // RVL-CNT-01-TR
	{vidNintendo, 0}:       adapter.SwitchPro,
}

// Classifier resolves a connected device to its source adapter, from the
// built-in VID/PID table plus an optional user override file.
type Classifier struct {
	log       bridge.Logger
	overrides map[vidPid]adapter.DevType
}

// override is one entry of the JSON override file.
type override struct {
	VID  uint16 `json:"vid"`
	PID  uint16 `json:"pid"`
	Type string `json:"type"`
}

var typeNames = map[string]adapter.DevType{
	"xb1":          adapter.XB1,
	"xb1-adaptive": adapter.XB1Adaptive,
	"ps4":          adapter.PS4,
	"switch":       adapter.SwitchPro,
	"wii":          adapter.Wii,
	"hid-generic":  adapter.HIDGeneric,
}

// NewClassifier builds a classifier. path may name a JSON override file
// ([{"vid":1118,"pid":767,"type":"xb1"}, ...]); a missing file is fine,
// a malformed one is logged and ignored.
func NewClassifier(path string, log bridge.Logger) *Classifier {
	c := &Classifier{
		log:       log.ChildLogger(map[string]interface{}{"pkg": "sdp"}),
		overrides: map[vidPid]adapter.DevType{},
	}
	if path == "" {
		return c
	}

	in, err := ioutil.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warnf("device override file unreadable: %v", err)
		}
		return c
	}

	var entries []override
	if err := jsoniter.Unmarshal(in, &entries); err != nil {
		c.log.Warnf("device override file malformed: %v", err)
		return c
	}
	for _, e := range entries {
		t, ok := typeNames[e.Type]
		if !ok {
			c.log.Warnf("device override with unknown type %q", e.Type)
			continue
		}
		c.overrides[vidPid{e.VID, e.PID}] = t
	}
	c.log.Infof("loaded %d device overrides", len(c.overrides))
	return c
}

// Classify maps a device to its source adapter type. The remote name
// helps when SDP yields no usable PnP record (Wiimotes predate it).
func (c *Classifier) Classify(vid, pid uint16, name string) adapter.DevType {
	if t, ok := c.overrides[vidPid{vid, pid}]; ok {
		return t
	}
	if t, ok := c.overrides[vidPid{vid, 0}]; ok {
		return t
	}
	if t, ok := builtinTypes[vidPid{vid, pid}]; ok {
		return t
	}
	if t, ok := builtinTypes[vidPid{vid, 0}]; ok {
		return t
	}
	if strings.HasPrefix(name, "Nintendo RVL-CNT-01") {
		return adapter.Wii
	}
	return adapter.HIDGeneric
}
