package clrt

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FixtureFile is the YAML description of a recorded runtime. Property keys
// are OpenCL symbols (CL_DEVICE_NAME, ...). Any *_error field forces that
// call to fail with the given status code
type FixtureFile struct {
	NumPlatformsError Status            `yaml:"num_platforms_error"`
	PlatformsError    Status            `yaml:"platforms_error"`
	Platforms         []FixturePlatform `yaml:"platforms"`
}

// FixturePlatform describes one platform and its devices
type FixturePlatform struct {
	Info            map[string]any    `yaml:"info"`
	Errors          map[string]Status `yaml:"errors"`
	NumDevicesError Status            `yaml:"num_devices_error"`
	DevicesError    Status            `yaml:"devices_error"`
	Devices         []FixtureDevice   `yaml:"devices"`
}

// FixtureDevice describes one device
type FixtureDevice struct {
	Info             map[string]any    `yaml:"info"`
	Errors           map[string]Status `yaml:"errors"`
	ContextError     Status            `yaml:"context_error"`
	FormatCountError Status            `yaml:"format_count_error"`
	FormatListError  Status            `yaml:"format_list_error"`
	ReleaseError     Status            `yaml:"release_error"`
	ImageFormats     []FixtureFormat   `yaml:"image_formats"`
}

// FixtureFormat is one image format. Values are OpenCL symbols or numbers.
// Access (read-only, write-only, read-write) and Images (2d, 3d) limit the
// queries that list the format; empty lists match every query
type FixtureFormat struct {
	Order  string   `yaml:"order"`
	Type   string   `yaml:"type"`
	Access []string `yaml:"access"`
	Images []string `yaml:"images"`
}

var fixtureAccess = map[string]MemFlags{
	"read-only":  MemReadOnly,
	"write-only": MemWriteOnly,
	"read-write": MemReadWrite,
}

var fixtureImages = map[string]MemObjectType{
	"2d": MemObjectImage2D,
	"3d": MemObjectImage3D,
}

type fixtureFormat struct {
	format ImageFormat
	access []MemFlags
	images []MemObjectType
}

func (ff fixtureFormat) matches(flags MemFlags, t MemObjectType) bool {
	return (len(ff.access) == 0 || slices.Contains(ff.access, flags)) &&
		(len(ff.images) == 0 || slices.Contains(ff.images, t))
}

type fixturePlatform struct {
	desc    FixturePlatform
	info    map[PlatformInfo][]byte
	errs    map[PlatformInfo]Status
	devices []DeviceID
}

type fixtureDevice struct {
	desc    FixtureDevice
	info    map[DeviceInfo][]byte
	errs    map[DeviceInfo]Status
	devType DeviceType
	formats []fixtureFormat
}

// formatsFor returns the formats listed for one access mode and image kind
func (d *fixtureDevice) formatsFor(flags MemFlags, t MemObjectType) []ImageFormat {
	var out []ImageFormat
	for _, ff := range d.formats {
		if ff.matches(flags, t) {
			out = append(out, ff.format)
		}
	}
	return out
}

// Fixture is a Runtime replayed from a FixtureFile
type Fixture struct {
	desc        FixtureFile
	platforms   []*fixturePlatform
	devices     []*fixtureDevice
	contexts    map[Context]DeviceID
	nextContext Context
}

func init() {
	Register("fixture", func(cfg OpenConfig) (Runtime, error) {
		if cfg.FixturePath == "" {
			return nil, fmt.Errorf("fixture backend needs a fixture file")
		}
		return LoadFixture(cfg.FixturePath)
	})
}

// LoadFixture reads a fixture description from path
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture builds a Fixture from its YAML description
func ParseFixture(data []byte) (*Fixture, error) {
	var desc FixtureFile
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return NewFixture(desc)
}

// NewFixture encodes every property of desc the way a native runtime would
// hand it back
func NewFixture(desc FixtureFile) (*Fixture, error) {
	f := &Fixture{
		desc:     desc,
		contexts: make(map[Context]DeviceID),
	}

	for pi, ps := range desc.Platforms {
		p := &fixturePlatform{
			desc: ps,
			info: make(map[PlatformInfo][]byte),
			errs: make(map[PlatformInfo]Status),
		}
		for key, val := range ps.Info {
			param, ok := PlatformInfoByName[key]
			if !ok {
				return nil, fmt.Errorf("platform %d: unknown property %s", pi, key)
			}
			raw, err := encodeValue(val)
			if err != nil {
				return nil, fmt.Errorf("platform %d: %s: %w", pi, key, err)
			}
			p.info[param] = raw
		}
		for key, code := range ps.Errors {
			param, ok := PlatformInfoByName[key]
			if !ok {
				return nil, fmt.Errorf("platform %d: unknown property %s", pi, key)
			}
			p.errs[param] = code
		}

		for di, ds := range ps.Devices {
			d, err := newFixtureDevice(ds)
			if err != nil {
				return nil, fmt.Errorf("platform %d device %d: %w", pi, di, err)
			}
			f.devices = append(f.devices, d)
			p.devices = append(p.devices, DeviceID(len(f.devices)))
		}
		f.platforms = append(f.platforms, p)
	}

	return f, nil
}

func newFixtureDevice(ds FixtureDevice) (*fixtureDevice, error) {
	d := &fixtureDevice{
		desc: ds,
		info: make(map[DeviceInfo][]byte),
		errs: make(map[DeviceInfo]Status),
	}
	for key, val := range ds.Info {
		param, ok := DeviceInfoByName[key]
		if !ok {
			return nil, fmt.Errorf("unknown property %s", key)
		}
		raw, err := encodeValue(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		d.info[param] = raw
		if param == DeviceTypeInfo {
			if n, ok := toUint64(val); ok {
				d.devType = DeviceType(n)
			}
		}
	}
	for key, code := range ds.Errors {
		param, ok := DeviceInfoByName[key]
		if !ok {
			return nil, fmt.Errorf("unknown property %s", key)
		}
		d.errs[param] = code
	}
	for _, ff := range ds.ImageFormats {
		order, err := parseSymbol(ff.Order, func(s string) (uint32, bool) {
			v, ok := ChannelOrderByName[s]
			return uint32(v), ok
		})
		if err != nil {
			return nil, fmt.Errorf("image format order: %w", err)
		}
		typ, err := parseSymbol(ff.Type, func(s string) (uint32, bool) {
			v, ok := ChannelTypeByName[s]
			return uint32(v), ok
		})
		if err != nil {
			return nil, fmt.Errorf("image format type: %w", err)
		}
		entry := fixtureFormat{format: ImageFormat{Order: ChannelOrder(order), Type: ChannelType(typ)}}
		for _, name := range ff.Access {
			flags, ok := fixtureAccess[name]
			if !ok {
				return nil, fmt.Errorf("image format access: unknown mode %q", name)
			}
			entry.access = append(entry.access, flags)
		}
		for _, name := range ff.Images {
			t, ok := fixtureImages[name]
			if !ok {
				return nil, fmt.Errorf("image format images: unknown kind %q", name)
			}
			entry.images = append(entry.images, t)
		}
		d.formats = append(d.formats, entry)
	}
	return d, nil
}

func parseSymbol(s string, lookup func(string) (uint32, bool)) (uint32, error) {
	if v, ok := lookup(s); ok {
		return v, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown symbol %q", s)
	}
	return uint32(n), nil
}

// encodeValue lays a YAML value out as the runtime would: strings NUL
// terminated, integers as 64-bit words, booleans as cl_bool and integer
// lists as size_t arrays
func encodeValue(val any) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return append([]byte(v), 0), nil
	case bool:
		raw := make([]byte, 4)
		if v {
			NativeEndian.PutUint32(raw, 1)
		}
		return raw, nil
	case []any:
		raw := make([]byte, 0, len(v)*SizeT)
		for _, item := range v {
			n, ok := toUint64(item)
			if !ok {
				return nil, fmt.Errorf("list element %v is not an integer", item)
			}
			word := make([]byte, SizeT)
			if SizeT == 4 {
				NativeEndian.PutUint32(word, uint32(n))
			} else {
				NativeEndian.PutUint64(word, n)
			}
			raw = append(raw, word...)
		}
		return raw, nil
	}
	n, ok := toUint64(val)
	if !ok {
		return nil, fmt.Errorf("unsupported value %v (%T)", val, val)
	}
	raw := make([]byte, 8)
	NativeEndian.PutUint64(raw, n)
	return raw, nil
}

func toUint64(val any) (uint64, bool) {
	switch v := val.(type) {
	case int:
		return uint64(v), true
	case int64:
		return uint64(v), true
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	}
	return 0, false
}

func (f *Fixture) platform(p PlatformID) (*fixturePlatform, error) {
	if p == 0 || int(p) > len(f.platforms) {
		return nil, InvalidValue
	}
	return f.platforms[p-1], nil
}

func (f *Fixture) device(d DeviceID) (*fixtureDevice, error) {
	if d == 0 || int(d) > len(f.devices) {
		return nil, InvalidValue
	}
	return f.devices[d-1], nil
}

// NumPlatforms implements Runtime
func (f *Fixture) NumPlatforms() (uint32, error) {
	if err := Check(f.desc.NumPlatformsError); err != nil {
		return 0, err
	}
	return uint32(len(f.platforms)), nil
}

// Platforms implements Runtime
func (f *Fixture) Platforms(n uint32) ([]PlatformID, error) {
	if err := Check(f.desc.PlatformsError); err != nil {
		return nil, err
	}
	if int(n) > len(f.platforms) {
		n = uint32(len(f.platforms))
	}
	ids := make([]PlatformID, n)
	for i := range ids {
		ids[i] = PlatformID(i + 1)
	}
	return ids, nil
}

func (f *Fixture) matching(p *fixturePlatform, t DeviceType) []DeviceID {
	var ids []DeviceID
	for _, id := range p.devices {
		if t == DeviceTypeAll || f.devices[id-1].devType&t != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// NumDevices implements Runtime
func (f *Fixture) NumDevices(p PlatformID, t DeviceType) (uint32, error) {
	fp, err := f.platform(p)
	if err != nil {
		return 0, err
	}
	if err := Check(fp.desc.NumDevicesError); err != nil {
		return 0, err
	}
	return uint32(len(f.matching(fp, t))), nil
}

// Devices implements Runtime
func (f *Fixture) Devices(p PlatformID, t DeviceType, n uint32) ([]DeviceID, error) {
	fp, err := f.platform(p)
	if err != nil {
		return nil, err
	}
	if err := Check(fp.desc.DevicesError); err != nil {
		return nil, err
	}
	ids := f.matching(fp, t)
	if int(n) < len(ids) {
		ids = ids[:n]
	}
	return ids, nil
}

// PlatformInfo implements Runtime
func (f *Fixture) PlatformInfo(p PlatformID, param PlatformInfo, buf []byte) (int, error) {
	fp, err := f.platform(p)
	if err != nil {
		return 0, err
	}
	if code, ok := fp.errs[param]; ok {
		return 0, Check(code)
	}
	raw, ok := fp.info[param]
	if !ok {
		return 0, InvalidValue
	}
	copy(buf, raw)
	return len(raw), nil
}

// DeviceInfo implements Runtime
func (f *Fixture) DeviceInfo(d DeviceID, param DeviceInfo, buf []byte) (int, error) {
	fd, err := f.device(d)
	if err != nil {
		return 0, err
	}
	if code, ok := fd.errs[param]; ok {
		return 0, Check(code)
	}
	raw, ok := fd.info[param]
	if !ok {
		return 0, InvalidValue
	}
	copy(buf, raw)
	return len(raw), nil
}

// CreateContext implements Runtime. Fixture contexts cover one device
func (f *Fixture) CreateContext(devices ...DeviceID) (Context, error) {
	if len(devices) != 1 {
		return 0, InvalidValue
	}
	fd, err := f.device(devices[0])
	if err != nil {
		return 0, err
	}
	if err := Check(fd.desc.ContextError); err != nil {
		return 0, err
	}
	f.nextContext++
	f.contexts[f.nextContext] = devices[0]
	return f.nextContext, nil
}

// SupportedImageFormats implements Runtime
func (f *Fixture) SupportedImageFormats(ctx Context, flags MemFlags, t MemObjectType, out []ImageFormat) (uint32, error) {
	id, ok := f.contexts[ctx]
	if !ok {
		return 0, InvalidValue
	}
	fd := f.devices[id-1]
	if out == nil {
		if err := Check(fd.desc.FormatCountError); err != nil {
			return 0, err
		}
	} else if err := Check(fd.desc.FormatListError); err != nil {
		return 0, err
	}
	formats := fd.formatsFor(flags, t)
	copy(out, formats)
	return uint32(len(formats)), nil
}

// ReleaseContext implements Runtime. The context is dropped even when the
// fixture forces a release failure
func (f *Fixture) ReleaseContext(ctx Context) error {
	id, ok := f.contexts[ctx]
	if !ok {
		return InvalidValue
	}
	delete(f.contexts, ctx)
	return Check(f.devices[id-1].desc.ReleaseError)
}

// OpenContexts reports how many contexts were created and not yet released
func (f *Fixture) OpenContexts() int {
	return len(f.contexts)
}

// Close implements Runtime
func (f *Fixture) Close() error {
	return nil
}
