// Package report renders the properties a compute runtime exposes for its
// platforms and devices as a fixed-layout text report
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/wattfource/clinfo/internal/clrt"
	"github.com/wattfource/clinfo/internal/logging"
)

// Options tunes a report pass
type Options struct {
	// ImageFormats lists the supported image formats of every device
	ImageFormats bool
	Image        ImageOptions
	// StringCapacity bounds text property buffers. Zero means the default
	StringCapacity int
	Logger         *logging.Logger
}

// Reporter walks every platform and device of a runtime once
type Reporter struct {
	rt     clrt.Runtime
	walker *Walker
	opts   Options
	log    *logging.Logger
}

var (
	deviceSeparator   = strings.Repeat("-", 80)
	platformSeparator = strings.Repeat("=", 80)
)

// New creates a Reporter writing the report to out and diagnostics to diag
func New(rt clrt.Runtime, out, diag io.Writer, opts Options) *Reporter {
	if opts.Image == (ImageOptions{}) {
		opts.Image = DefaultImageOptions
	}
	log := logging.WithComponent("report")
	if opts.Logger != nil {
		log = opts.Logger.WithComponent("report")
	}
	return &Reporter{
		rt:     rt,
		walker: &Walker{Out: out, Diag: diag, StringCapacity: opts.StringCapacity},
		opts:   opts,
		log:    log,
	}
}

func plural(n uint32, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Run prints the whole report. Only a failure to list the platforms is
// returned; every other failure is reported on the diagnostic stream and
// the pass continues
func (r *Reporter) Run() error {
	start := time.Now()
	out := r.walker.Out

	n, err := r.rt.NumPlatforms()
	if err != nil {
		r.walker.diagf("Unable to query the number of platforms: %v", err)
		return fmt.Errorf("query platform count: %w", err)
	}
	fmt.Fprintf(out, "Found %s.\n", plural(n, "platform"))

	platforms, err := r.rt.Platforms(n)
	if err != nil {
		r.walker.diagf("Unable to enumerate the platforms: %v", err)
		return fmt.Errorf("enumerate platforms: %w", err)
	}
	r.log.Infof("reporting on %d platform(s)", len(platforms))

	for i, p := range platforms {
		r.platform(i, p)
		if i+1 < len(platforms) {
			fmt.Fprintln(out, platformSeparator)
		}
	}

	r.log.WithField("elapsed", time.Since(start).String()).Info("report complete")
	return nil
}

func (r *Reporter) platform(index int, p clrt.PlatformID) {
	prefix := fmt.Sprintf("platform[%d]", index)
	out := r.walker.Out

	fmt.Fprintf(out, "%s:\n", prefix)
	failed := r.walker.Walk(prefix, PlatformTable, func(param uint32, buf []byte) (int, error) {
		return r.rt.PlatformInfo(p, clrt.PlatformInfo(param), buf)
	})
	if failed > 0 {
		r.log.Warnf("%s: %d propert(ies) unavailable", prefix, failed)
	}

	n, err := r.rt.NumDevices(p, clrt.DeviceTypeAll)
	if err != nil {
		r.walker.diagf("%s: Unable to query the number of devices: %v", prefix, err)
		return
	}
	fmt.Fprintf(out, "%s: Found %s.\n", prefix, plural(n, "device"))

	devices, err := r.rt.Devices(p, clrt.DeviceTypeAll, n)
	if err != nil {
		r.walker.diagf("%s: Unable to enumerate the devices: %v", prefix, err)
		return
	}

	for j, d := range devices {
		r.device(j, d)
		if j+1 < len(devices) {
			fmt.Fprintln(out, deviceSeparator)
		}
	}
}

func (r *Reporter) device(index int, d clrt.DeviceID) {
	prefix := fmt.Sprintf("device[%d]", index)

	fmt.Fprintf(r.walker.Out, "%s:\n", prefix)
	failed := r.walker.Walk(prefix, DeviceTable, func(param uint32, buf []byte) (int, error) {
		return r.rt.DeviceInfo(d, clrt.DeviceInfo(param), buf)
	})
	if failed > 0 {
		r.log.Warnf("%s: %d propert(ies) unavailable", prefix, failed)
	}

	if r.opts.ImageFormats {
		if err := r.walker.ImageFormats(prefix, DeviceTable.Width, r.rt, d, r.opts.Image); err != nil {
			r.log.Debugf("%s: image formats unavailable: %v", prefix, err)
		}
	}
}
