package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bgrewell/diskimage-kit/pkg/ldm"
	"github.com/bgrewell/diskimage-kit/pkg/locator"
	"github.com/bgrewell/diskimage-kit/pkg/ntfs"
	"github.com/bgrewell/diskimage-kit/pkg/vmdk"
	"github.com/bgrewell/usage"
	"github.com/fatih/color"
	"github.com/theckman/yacspin"
	"golang.org/x/term"
)

func main() {
	u := usage.NewUsage(
		usage.WithApplicationName("diskdump"),
		usage.WithApplicationDescription("diskdump inspects VMDK descriptor files, LDM dynamic-disk databases, and resident NTFS attributes, printing their decoded structure."),
	)

	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	asLDM := u.AddBooleanOption("l", "ldm", false, "Dump an LDM dynamic-disk database instead of a VMDK descriptor", "optional", nil)
	asNTFS := u.AddBooleanOption("n", "ntfs", false, "Dump the file as a single resident NTFS DATA attribute instead of a VMDK descriptor", "optional", nil)
	path := u.AddArgument(1, "path", "Path to the file to dump", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}
	if *help {
		u.PrintUsage()
		os.Exit(0)
	}
	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("a <path> argument is required"))
		os.Exit(1)
	}

	colorEnabled := term.IsTerminal(int(os.Stdout.Fd()))
	color.NoColor = !colorEnabled

	var err error
	switch {
	case *asLDM:
		err = dumpLDM(*path)
	case *asNTFS:
		err = dumpNTFS(*path)
	default:
		err = dumpVMDK(*path)
	}
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
}

func dumpVMDK(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	df, err := vmdk.ParseDescriptorFile(f)
	if err != nil {
		return fmt.Errorf("parsing descriptor: %w", err)
	}

	section := color.New(color.FgCyan, color.Bold)
	section.Println("== Header ==")
	for _, e := range df.Header {
		fmt.Printf("  %s=%s\n", e.Key, e.Value)
	}

	section.Println("== Extents ==")
	for _, e := range df.Extents {
		fmt.Printf("  %s %d %s %q\n", e.Access, e.SizeSectors, e.Type, e.Filename)
	}

	section.Println("== Disk Database ==")
	for _, e := range df.DiskDatabase {
		fmt.Printf("  %s=%s\n", e.Key, e.Value)
	}
	return nil
}

func dumpLDM(path string) error {
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	l := locator.NewHostLocator(dir)

	stream, err := l.Open(name, locator.OpenExisting, locator.AccessRead, locator.ShareRead)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer stream.Close()

	spinner, spinErr := newScanSpinner()
	if spinErr == nil {
		_ = spinner.Start()
	}

	db, err := ldm.Load(stream)

	if spinner != nil {
		_ = spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("loading ldm database: %w", err)
	}

	section := color.New(color.FgGreen, color.Bold)
	section.Println("== Disk Groups ==")
	for _, g := range db.DiskGroups() {
		fmt.Printf("  id=%d guid=%s\n", g.Id, g.GroupGUID)
	}

	section.Println("== Disks ==")
	for _, d := range db.Disks() {
		fmt.Printf("  id=%d\n", d.Id)
	}

	section.Println("== Volumes ==")
	for _, v := range db.Volumes() {
		fmt.Printf("  id=%d guid=%s\n", v.Id, v.VolumeGUID)
		for _, c := range db.GetVolumeComponents(v.Id) {
			fmt.Printf("    component id=%d\n", c.Id)
			for _, e := range db.GetComponentExtents(c.Id) {
				fmt.Printf("      extent id=%d disk=%d offset=%d length=%d\n", e.Id, e.DiskId, e.Offset, e.Length)
			}
		}
	}
	return nil
}

// dumpNTFS treats path's entire contents as one resident NTFS DATA
// attribute's inline bytes and renders it through the attribute model.
// This tool has no MFT-record parser to source a real attribute from, so it
// builds the minimal synthetic record the ntfs package itself consumes.
func dumpNTFS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	record := &ntfs.ResidentAttributeRecord{AttrType: ntfs.Data, RawData: data}
	attr, err := ntfs.FromRecord(nil, ntfs.FileRecordReference{}, record)
	if err != nil {
		return fmt.Errorf("building ntfs attribute: %w", err)
	}

	section := color.New(color.FgYellow, color.Bold)
	section.Println("== Attribute ==")
	if err := attr.Dump(os.Stdout, 2); err != nil {
		return fmt.Errorf("dumping attribute: %w", err)
	}
	return nil
}

// newScanSpinner builds the progress spinner shown while scanning a
// potentially large LDM database. It is disabled outright on non-TTY
// output (piped/redirected stdout), matching the color.NoColor gating
// above.
func newScanSpinner() (*yacspin.Spinner, error) {
	if color.NoColor {
		return nil, fmt.Errorf("non-interactive output, spinner disabled")
	}
	cfg := yacspin.Config{
		Frequency:       120 * time.Millisecond,
		CharSet:         yacspin.CharSets[11],
		Suffix:          " scanning LDM database",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	return yacspin.New(cfg)
}
