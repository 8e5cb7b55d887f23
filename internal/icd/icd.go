// Package icd inspects how OpenCL drivers are registered on this machine.
// It reads the ICD loader's vendor files and lists the display controllers
// on the PCI bus, for when the report finds fewer platforms than expected
package icd

import (
	"bufio"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DefaultVendorsDir is where the ICD loader looks for vendor files
const DefaultVendorsDir = "/etc/OpenCL/vendors"

// Inventory contains the detected driver registrations
type Inventory struct {
	CollectedAt time.Time `json:"collected_at"`
	VendorsPath string    `json:"vendors_path"`
	Vendors     []Vendor  `json:"vendors"`
	GPUs        []GPU     `json:"gpus"`
	Backends    []string  `json:"backends"`
	Error       string    `json:"error,omitempty"`
}

// Vendor is one .icd registration
type Vendor struct {
	File     string `json:"file"`
	Library  string `json:"library"`
	Resolved bool   `json:"resolved"`
	Path     string `json:"path,omitempty"`
}

// GPU is one display controller reported by lspci
type GPU struct {
	Slot   string `json:"slot"`
	Class  string `json:"class"`
	Name   string `json:"name"`
	PCIID  string `json:"pci_id,omitempty"`
	Vendor string `json:"vendor"`
}

// Collect gathers the vendor registrations and PCI display controllers.
// backends lists the report backends compiled into this binary
func Collect(backends []string) *Inventory {
	inv := &Inventory{
		CollectedAt: time.Now().UTC(),
		VendorsPath: VendorsPath(),
		Backends:    backends,
	}

	vendors, err := ReadVendors(inv.VendorsPath)
	if err != nil {
		inv.Error = err.Error()
	}
	inv.Vendors = vendors

	if out, err := exec.Command("lspci", "-nn").Output(); err == nil {
		inv.GPUs = ParseLspci(string(out))
	}

	return inv
}

// VendorsPath returns $OCL_ICD_VENDORS when set, else the default directory
func VendorsPath() string {
	if p := os.Getenv("OCL_ICD_VENDORS"); p != "" {
		return p
	}
	return DefaultVendorsDir
}

// ReadVendors reads every .icd file under path, or path itself when it is a
// single file. Entries come back sorted by file name
func ReadVendors(path string) ([]Vendor, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	if stat.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.icd"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	vendors := make([]Vendor, 0, len(files))
	for _, file := range files {
		lib, err := readLibraryName(file)
		if err != nil {
			return vendors, err
		}
		v := Vendor{File: filepath.Base(file), Library: lib}
		v.Path, v.Resolved = ResolveLibrary(lib)
		vendors = append(vendors, v)
	}
	return vendors, nil
}

// readLibraryName returns the first non-empty line of an .icd file
func readLibraryName(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", scanner.Err()
}

// librarySearchPath lists the directories a bare library name is looked up
// in, LD_LIBRARY_PATH first
func librarySearchPath() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv("LD_LIBRARY_PATH")) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return append(dirs,
		"/usr/local/lib",
		"/usr/lib",
		"/usr/lib64",
		"/usr/lib/x86_64-linux-gnu",
		"/usr/lib/aarch64-linux-gnu",
		"/lib",
		"/lib64",
	)
}

// ResolveLibrary finds the file an .icd entry names
func ResolveLibrary(lib string) (string, bool) {
	if lib == "" {
		return "", false
	}
	if filepath.IsAbs(lib) {
		if _, err := os.Stat(lib); err == nil {
			return lib, true
		}
		return "", false
	}
	for _, dir := range librarySearchPath() {
		candidate := filepath.Join(dir, lib)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

var (
	lspciClass = regexp.MustCompile(`^(\S+)\s+(VGA compatible controller|3D controller|Display controller)\s+\[[0-9a-f]{4}\]:\s+(.*)$`)
	pciID      = regexp.MustCompile(`\[([0-9a-f]{4}:[0-9a-f]{4})\]`)
)

// ParseLspci extracts the display controllers from `lspci -nn` output
func ParseLspci(output string) []GPU {
	var gpus []GPU
	for _, line := range strings.Split(output, "\n") {
		m := lspciClass.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		gpu := GPU{Slot: m[1], Class: m[2], Name: m[3]}

		// Format: "NVIDIA Corporation AD102 [GeForce RTX 4090] [10de:2684] (rev a1)"
		if ids := pciID.FindAllStringSubmatchIndex(gpu.Name, -1); len(ids) > 0 {
			last := ids[len(ids)-1]
			gpu.PCIID = gpu.Name[last[2]:last[3]]
			gpu.Name = strings.TrimSpace(gpu.Name[:last[0]])
		}
		gpu.Vendor = vendorOf(gpu)
		gpus = append(gpus, gpu)
	}
	return gpus
}

func vendorOf(g GPU) string {
	switch {
	case strings.HasPrefix(g.PCIID, "10de:"):
		return "nvidia"
	case strings.HasPrefix(g.PCIID, "1002:"):
		return "amd"
	case strings.HasPrefix(g.PCIID, "8086:"):
		return "intel"
	}
	lower := strings.ToLower(g.Name)
	switch {
	case strings.Contains(lower, "nvidia"):
		return "nvidia"
	case strings.Contains(lower, "amd"), strings.Contains(lower, "radeon"):
		return "amd"
	case strings.Contains(lower, "intel"):
		return "intel"
	}
	return "unknown"
}

// ToJSON serializes the inventory to JSON
func (inv *Inventory) ToJSON() ([]byte, error) {
	return json.MarshalIndent(inv, "", "  ")
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Summary returns a human-readable summary of the inventory
func (inv *Inventory) Summary() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("OpenCL Drivers") + "\n")
	b.WriteString("══════════════\n\n")

	b.WriteString("Vendor files (" + inv.VendorsPath + "):\n")
	if inv.Error != "" {
		b.WriteString("  " + badStyle.Render("✗ "+inv.Error) + "\n")
	}
	if len(inv.Vendors) == 0 && inv.Error == "" {
		b.WriteString("  " + dimStyle.Render("(none registered)") + "\n")
	}
	for _, v := range inv.Vendors {
		if v.Resolved {
			b.WriteString("  " + okStyle.Render("✓") + " " + v.File + " → " + v.Path + "\n")
		} else {
			b.WriteString("  " + badStyle.Render("✗") + " " + v.File + " → " + v.Library + " (not found)\n")
		}
	}

	b.WriteString("\nDisplay controllers:\n")
	if len(inv.GPUs) == 0 {
		b.WriteString("  " + dimStyle.Render("(none detected)") + "\n")
	}
	for _, g := range inv.GPUs {
		b.WriteString("  " + g.Slot + " " + g.Name)
		if g.PCIID != "" {
			b.WriteString(" [" + g.PCIID + "]")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nBackends in this build: " + strings.Join(inv.Backends, ", ") + "\n")

	return b.String()
}
