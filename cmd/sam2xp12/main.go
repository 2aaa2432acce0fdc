// cmd/sam2xp12/main.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

// sam2xp12 converts a SAM-jetway scenery package in place: the DSF tiles
// get native XP12 jetway facades instead of the SAM library objects,
// apt.dat gets matching 1500 jetway rows and the SAM docking systems are
// handed over to AutoDGS. The original "Earth nav data" folder is kept as
// a backup, rerunning the tool always starts from that backup.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hotbso/sam-2-xp12/pkg/aptdat"
	"github.com/hotbso/sam-2-xp12/pkg/convert"
	"github.com/hotbso/sam-2-xp12/pkg/dsf"
	"github.com/hotbso/sam-2-xp12/pkg/log"
	"github.com/hotbso/sam-2-xp12/pkg/sam"
	"github.com/hotbso/sam-2-xp12/pkg/util"
)

const (
	earthNavData = "Earth nav data"
	backupSuffix = ".pre_s2n"
	autoDgsMark  = "use_autodgs"
)

func errExit(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	jwType := flag.Int("jw_type", -1, "native jetway style: 0=light-solid, 1=light-glass, 2=dark-solid, 3=dark-glass")
	matchRadius := flag.Float64("jw_match_radius", convert.DefaultMatchRadius,
		"max distance in meters between a jetway and its ramp start")
	rotundaLength := flag.Float64("jw_rotunda_length", convert.DefaultRotundaLength,
		"length in meters of the rotunda segment")
	dryRun := flag.Bool("dry_run", false, "report conversions but write nothing")
	verbose := flag.Bool("verbose", false, "print each conversion to stdout")
	logLevel := flag.String("log_level", "info", "logging level: debug, info, warn, error")
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Printf("usage: sam2xp12 -jw_type n [options] [scenery-folder]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := convert.Config{
		Style:         convert.Style(*jwType),
		MatchRadius:   *matchRadius,
		RotundaLength: *rotundaLength,
	}
	if !cfg.Style.Valid() {
		errExit("-jw_type must be given and in the range 0..%d", convert.NumStyles-1)
	}

	sceneryDir := "."
	if flag.NArg() == 1 {
		sceneryDir = flag.Arg(0)
	}

	navDir := filepath.Join(sceneryDir, earthNavData)
	if st, err := os.Stat(navDir); err != nil || !st.IsDir() {
		errExit("%s: no \"%s\" folder, is this an airport scenery package?", sceneryDir, earthNavData)
	}
	if _, err := os.Stat(filepath.Join(navDir, "apt.dat")); err != nil {
		errExit("%s: no apt.dat", navDir)
	}

	lg := log.New(*logLevel, sceneryDir)
	lg.Infof("converting %s to style %s, match radius %.2fm", sceneryDir, cfg.Style, cfg.MatchRadius)

	// All input is read from the backup so a rerun converts the pristine
	// scenery again rather than its own output.
	backupDir := navDir + backupSuffix
	if _, err := os.Stat(backupDir); err != nil {
		if *dryRun {
			backupDir = navDir
		} else if err := util.CopyDir(backupDir, navDir); err != nil {
			errExit("backup: %v", err)
		} else {
			lg.Infof("created backup %s", backupDir)
		}
	} else {
		fmt.Printf("reusing backup %s\n", backupDir)
	}

	var e util.ErrorLogger
	samDB := loadSamDatabase(sceneryDir, &e, lg)

	aptPath := filepath.Join(backupDir, "apt.dat")
	af, err := os.Open(aptPath)
	if err != nil {
		errExit("%v", err)
	}
	ramps := aptdat.ParseRampStarts(af, &e)
	af.Close()
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}
	lg.Infof("%d ramp starts", len(ramps))

	cl := convert.NewClassifier(convert.NewObjScanner(os.DirFS(sceneryDir)))

	var dsfFiles []string // relative to backupDir
	err = filepath.WalkDir(backupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".dsf") {
			rel, _ := filepath.Rel(backupDir, path)
			dsfFiles = append(dsfFiles, rel)
		}
		return nil
	})
	if err != nil {
		errExit("%v", err)
	}

	var mu sync.Mutex
	manifest := convert.NewManifest(cfg)
	var allRecords []convert.Record
	remaining := 0

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, rel := range dsfFiles {
		g.Go(func() error {
			recs, left, err := convertTile(backupDir, navDir, rel, samDB, ramps, cfg, cl, *dryRun, lg)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			mu.Lock()
			manifest.Add(rel, recs)
			allRecords = append(allRecords, recs...)
			remaining += left
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		errExit("%v", err)
	}

	var rows []string
	converted, removed, unmatched := 0, 0, 0
	for i := range allRecords {
		r := &allRecords[i]
		if r.Removed {
			removed++
			if *verbose {
				fmt.Printf("removed %s dock at %s\n", r.SamResource, r.Pos.DDString())
			}
			continue
		}
		converted++
		if !r.Matched && r.RampName == "" {
			unmatched++
		}
		if *verbose {
			name := r.Name
			if name == "" {
				name = r.RampName
			}
			fmt.Printf("converted %s '%s' at %s\n", r.Kind, name, r.Pos.DDString())
		}
		rows = append(rows, r.AptRow())
	}

	if !*dryRun {
		if err := rewriteAptDat(aptPath, filepath.Join(navDir, "apt.dat"), rows); err != nil {
			errExit("apt.dat: %v", err)
		}

		mf, err := os.Create(filepath.Join(sceneryDir, convert.ManifestName))
		if err != nil {
			errExit("%v", err)
		}
		if err := manifest.Write(mf); err != nil {
			mf.Close()
			errExit("manifest: %v", err)
		}
		mf.Close()

		// AutoDGS picks up the converted stands through this marker file
		if removed > 0 {
			if f, err := os.Create(filepath.Join(sceneryDir, autoDgsMark)); err == nil {
				f.Close()
			} else {
				lg.Errorf("%s: %v", autoDgsMark, err)
			}
		}
	}

	fmt.Printf("%d jetways converted, %d docks removed, %d without ramp match\n",
		converted, removed, unmatched)
	if remaining > 0 {
		fmt.Printf("%d placements still reference SAM libraries, check the log\n", remaining)
	}
	if *dryRun {
		fmt.Printf("dry run, nothing written\n")
	}
	lg.Infof("done, %d converted, %d removed, %d remaining SAM references", converted, removed, remaining)
}

// loadSamDatabase reads sam.xml from the scenery folder. A missing file
// is not an error, conversion then runs on ramp starts alone.
func loadSamDatabase(sceneryDir string, e *util.ErrorLogger, lg *log.Logger) *sam.Database {
	f, err := os.Open(filepath.Join(sceneryDir, "sam.xml"))
	if err != nil {
		lg.Warnf("no sam.xml, converting without door geometry")
		return &sam.Database{}
	}
	defer f.Close()

	db := sam.ParseDatabase(f, e)
	if e.HaveErrors() {
		e.PrintErrors(lg)
		os.Exit(1)
	}
	lg.Infof("sam.xml: %d jetways, %d docks", len(db.Jetways), len(db.Docks))
	return db
}

// convertTile runs the conversion on one DSF file from the backup and
// writes the result to the live folder. The output file is only touched
// once the new tile is completely encoded.
func convertTile(backupDir, navDir, rel string, samDB *sam.Database, ramps []aptdat.RampStart,
	cfg convert.Config, cl *convert.Classifier, dryRun bool, lg *log.Logger) ([]convert.Record, int, error) {

	raw, err := os.ReadFile(filepath.Join(backupDir, rel))
	if err != nil {
		return nil, 0, err
	}

	doc, err := dsf.Decode(raw)
	if err != nil {
		return nil, 0, err
	}
	tables, err := dsf.ExtractTables(doc)
	if err != nil {
		return nil, 0, err
	}

	recs := convert.Transform(tables, samDB, ramps, cfg, cl, lg)
	if len(recs) == 0 {
		lg.Infof("%s: nothing to convert", rel)
		return nil, 0, nil
	}

	// placements that still point into a SAM library after conversion
	left := 0
	for _, p := range tables.ObjectPlacements {
		if p.DefIndex >= 0 && p.DefIndex < len(tables.Objects.Strings) &&
			convert.IsSamLibraryResource(tables.Objects.Strings[p.DefIndex]) {
			left++
			lg.Warnf("%s: remaining SAM placement %s at %s", rel,
				tables.Objects.Strings[p.DefIndex], p.Pos.DDString())
		}
	}

	if dryRun {
		return recs, left, nil
	}

	if err := tables.Rebuild(); err != nil {
		return nil, 0, err
	}
	out := doc.Encode()
	if err := os.WriteFile(filepath.Join(navDir, rel), out, 0o644); err != nil {
		return nil, 0, err
	}
	lg.Infof("%s: %d placements converted", rel, len(recs))
	return recs, left, nil
}

func rewriteAptDat(srcPath, dstPath string, rows []string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp := dstPath + ".tmp"
	dst, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := aptdat.RewriteJetways(src, dst, rows); err != nil {
		dst.Close()
		os.Remove(tmp)
		return err
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dstPath)
}
