// pkg/convert/convert_test.go
// Copyright(c) 2024 Holger Teutsch, licensed under the MIT License
// SPDX: MIT

package convert

import (
	"bytes"
	gomath "math"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hotbso/sam-2-xp12/pkg/aptdat"
	"github.com/hotbso/sam-2-xp12/pkg/dsf"
	"github.com/hotbso/sam-2-xp12/pkg/math"
	"github.com/hotbso/sam-2-xp12/pkg/sam"
	"github.com/hotbso/sam-2-xp12/pkg/util"
)

var gatePos = math.Point2LL{11.0776, 49.4950}

const samResource = "SAM_Library/jetways/jetway_solid.obj"

// testTables returns a table view with one tree object and one SAM jetway
// placement at gatePos.
func testTables() *dsf.Tables {
	return &dsf.Tables{
		Objects: &dsf.StringTable{Strings: []string{
			"forests/tree.obj",
			samResource,
		}},
		Polygons: &dsf.StringTable{},
		ObjectPlacements: []dsf.Placement{
			{DefIndex: 0, Pos: math.Point2LL{11.08, 49.50}, Heading: 270},
			{DefIndex: 1, Pos: gatePos, Heading: 61},
		},
	}
}

func testConfig() Config {
	return Config{
		Style:         Jetway2Solid,
		MatchRadius:   DefaultMatchRadius,
		RotundaLength: DefaultRotundaLength,
	}
}

func TestTransformMatched(t *testing.T) {
	tables := testTables()
	ramp := aptdat.RampStart{
		Name:    "Gate 11",
		Pos:     math.Offset2LL(gatePos, 45, 0.3),
		Heading: 80,
	}
	cfg := testConfig()
	cfg.MatchRadius = 0.8

	tree := tables.ObjectPlacements[0]
	recs := Transform(tables, &sam.Database{}, []aptdat.RampStart{ramp}, cfg, NewClassifier(nil), nil)

	if len(recs) != 1 {
		t.Fatalf("got %d records, expected 1", len(recs))
	}
	r := recs[0]
	if !r.Matched || r.RampName != "Gate 11" {
		t.Errorf("record not matched to ramp: %+v", r)
	}
	if r.Pos != ramp.Pos || r.Heading != ramp.Heading {
		t.Errorf("position/heading not derived from ramp start: %+v", r)
	}

	// exactly one new entry, existing ones untouched
	if len(tables.Objects.Strings) != 3 || tables.Objects.Strings[2] != cfg.Style.Resource() {
		t.Errorf("object table: %v", tables.Objects.Strings)
	}

	// the tree placement is byte-identical, including its def index
	if !reflect.DeepEqual(tables.ObjectPlacements[0], tree) {
		t.Errorf("unrelated placement was disturbed: %+v", tables.ObjectPlacements[0])
	}

	// the jetway placement was replaced in its slot
	p := tables.ObjectPlacements[1]
	if p.DefIndex != 2 {
		t.Errorf("replacement def index: %d", p.DefIndex)
	}
	wantBase := math.Offset2LL(ramp.Pos, ramp.Heading, -cfg.RotundaLength)
	if p.Pos != wantBase {
		t.Errorf("replacement position: %v, expected %v", p.Pos, wantBase)
	}
	if len(p.Params) != 3 {
		t.Errorf("replacement params: %v", p.Params)
	}

	// and a rotunda facade winding was appended
	if len(tables.PolygonPlacements) != 1 {
		t.Fatalf("got %d polygon placements, expected 1", len(tables.PolygonPlacements))
	}
	poly := tables.PolygonPlacements[0]
	if poly.Param != facadeWallParam || len(poly.Points) != 2 || poly.Points[1] != ramp.Pos {
		t.Errorf("rotunda polygon: %+v", poly)
	}
	if tables.Polygons.Strings[poly.DefIndex] != cfg.Style.Resource() {
		t.Errorf("rotunda polygon resource: %v", tables.Polygons.Strings)
	}
}

func TestTransformUnmatched(t *testing.T) {
	tables := testTables()
	ramp := aptdat.RampStart{
		Name:    "Gate 11",
		Pos:     math.Offset2LL(gatePos, 45, 0.3),
		Heading: 80,
	}
	cfg := testConfig()
	cfg.MatchRadius = 0.1

	recs := Transform(tables, &sam.Database{}, []aptdat.RampStart{ramp}, cfg, NewClassifier(nil), nil)

	if len(recs) != 1 {
		t.Fatalf("got %d records, expected 1", len(recs))
	}
	r := recs[0]
	if r.Matched || r.RampName != "" {
		t.Errorf("record should be unmatched: %+v", r)
	}
	// converted anyway, on its own position and heading
	if r.Pos != gatePos || r.Heading != 61 {
		t.Errorf("unmatched conversion should keep its own pose: %+v", r)
	}
	if tables.ObjectPlacements[1].DefIndex != 2 {
		t.Errorf("placement was not converted: %+v", tables.ObjectPlacements[1])
	}
}

func TestTransformIdempotent(t *testing.T) {
	tables := testTables()
	cfg := testConfig()

	recs := Transform(tables, &sam.Database{}, nil, cfg, NewClassifier(nil), nil)
	if len(recs) != 1 {
		t.Fatalf("got %d records, expected 1", len(recs))
	}

	objects := util.DuplicateSlice(tables.Objects.Strings)
	placements := util.DuplicateSlice(tables.ObjectPlacements)
	polys := util.DuplicateSlice(tables.PolygonPlacements)

	recs = Transform(tables, &sam.Database{}, nil, cfg, NewClassifier(nil), nil)
	if len(recs) != 0 {
		t.Errorf("second run produced %d records", len(recs))
	}
	if !reflect.DeepEqual(objects, tables.Objects.Strings) ||
		!reflect.DeepEqual(placements, tables.ObjectPlacements) ||
		!reflect.DeepEqual(polys, tables.PolygonPlacements) {
		t.Errorf("second run changed the tables")
	}
}

func TestTransformTieBreak(t *testing.T) {
	rampPos := math.Offset2LL(gatePos, 10, 0.2)
	ramps := []aptdat.RampStart{
		{Name: "first", Pos: rampPos, Heading: 10},
		{Name: "second", Pos: rampPos, Heading: 200},
	}

	// same result on every run
	for range 5 {
		tables := testTables()
		recs := Transform(tables, &sam.Database{}, ramps, testConfig(), NewClassifier(nil), nil)
		if len(recs) != 1 || recs[0].RampName != "first" {
			t.Fatalf("tie not broken by input order: %+v", recs)
		}
	}
}

func TestTransformRadiusBoundary(t *testing.T) {
	ramp := aptdat.RampStart{Name: "edge", Pos: math.Offset2LL(gatePos, 90, 0.4), Heading: 45}
	dist := math.MDistance2LL(gatePos, ramp.Pos)

	// distance == radius is a match
	tables := testTables()
	cfg := testConfig()
	cfg.MatchRadius = dist
	recs := Transform(tables, &sam.Database{}, []aptdat.RampStart{ramp}, cfg, NewClassifier(nil), nil)
	if len(recs) != 1 || !recs[0].Matched {
		t.Errorf("distance == radius should match: %+v", recs)
	}

	// any radius below the distance is a miss
	tables = testTables()
	cfg.MatchRadius = gomath.Nextafter(dist, 0)
	recs = Transform(tables, &sam.Database{}, []aptdat.RampStart{ramp}, cfg, NewClassifier(nil), nil)
	if len(recs) != 1 || recs[0].Matched {
		t.Errorf("distance > radius should not match: %+v", recs)
	}
}

const samGeometryXML = `<scenery>
  <jetways>
    <jetway name="Gate 11" latitude="49.4950" longitude="11.0776" heading="61"
      height="4.3" cabinPos="17.6" maxExtent="15.4" initialRot1="-60.1" initialRot2="-37.8" />
  </jetways>
  <docks/>
</scenery>
`

func TestTransformSamGeometry(t *testing.T) {
	var e util.ErrorLogger
	samDB := sam.ParseDatabase(strings.NewReader(samGeometryXML), &e)
	if e.HaveErrors() {
		t.Fatalf("sam.xml: %s", e.String())
	}

	tables := testTables()
	recs := Transform(tables, samDB, nil, testConfig(), NewClassifier(nil), nil)
	if len(recs) != 1 {
		t.Fatalf("got %d records, expected 1", len(recs))
	}
	r := recs[0]
	if r.Name != "Gate 11" {
		t.Errorf("sam.xml entry not associated: %+v", r)
	}
	if r.TunnelCode != 2 || r.CabinLength != 17.6 {
		t.Errorf("tunnel geometry: %+v", r)
	}
	if math.Abs(r.Heading-(61-60.1)) > 1e-9 {
		t.Errorf("tunnel heading: %g", r.Heading)
	}

	row := r.AptRow()
	if !strings.Contains(row, "# 'Gate 11'") || !strings.Contains(row, "\n1500 ") {
		t.Errorf("apt row: %q", row)
	}
}

func TestTransformUnconvertibleKept(t *testing.T) {
	// cabinPos 9 fits no native tunnel
	xml := strings.Replace(samGeometryXML, `cabinPos="17.6"`, `cabinPos="9.0"`, 1)
	var e util.ErrorLogger
	samDB := sam.ParseDatabase(strings.NewReader(xml), &e)
	if e.HaveErrors() {
		t.Fatalf("sam.xml: %s", e.String())
	}

	tables := testTables()
	before := util.DuplicateSlice(tables.ObjectPlacements)
	recs := Transform(tables, samDB, nil, testConfig(), NewClassifier(nil), nil)
	if len(recs) != 0 {
		t.Errorf("unconvertible jetway produced records: %+v", recs)
	}
	if !reflect.DeepEqual(before, tables.ObjectPlacements) {
		t.Errorf("unconvertible jetway was touched")
	}
}

func TestTransformDockDropped(t *testing.T) {
	tables := testTables()
	tables.Objects.Strings = append(tables.Objects.Strings, "SAM_Library/docks/vdgs.obj")
	tables.ObjectPlacements = append(tables.ObjectPlacements, dsf.Placement{
		DefIndex: 2, Pos: math.Point2LL{11.079, 49.496}, Heading: 100,
	})

	recs := Transform(tables, &sam.Database{}, nil, testConfig(), NewClassifier(nil), nil)

	var dock *Record
	for i := range recs {
		if recs[i].Kind == KindDock {
			dock = &recs[i]
		}
	}
	if dock == nil || !dock.Removed {
		t.Fatalf("no removal record for the dock: %+v", recs)
	}
	for _, p := range tables.ObjectPlacements {
		if p.DefIndex == 2 {
			t.Errorf("dock placement still present: %+v", p)
		}
	}
	// the def table entry itself stays, indices are stable
	if tables.Objects.Strings[2] != "SAM_Library/docks/vdgs.obj" {
		t.Errorf("object table was renumbered: %v", tables.Objects.Strings)
	}
}

func TestClassify(t *testing.T) {
	cl := NewClassifier(nil)
	cases := []struct {
		resource string
		kind     Kind
	}{
		{resource: "SAM_Library/jetways/jetway_solid.obj", kind: KindFixed},
		{resource: "SAM3_Library/Jetways/jetway_glass_rotating.obj", kind: KindRotating},
		{resource: "SAM_Library/stairs/stairs_15m.obj", kind: KindStairs},
		{resource: "SAM_Library/walkways/walkway_20m.obj", kind: KindWalkway},
		{resource: "SAM_Library/docks/safedock.obj", kind: KindDock},
		{resource: "SAM_Library/seasons/palette.png", kind: KindNone},
		{resource: "forests/tree.obj", kind: KindNone},
		{resource: Jetway2Solid.Resource(), kind: KindNone},
	}
	for _, c := range cases {
		if got := cl.Classify(c.resource); got != c.kind {
			t.Errorf("Classify(%q) = %s, expected %s", c.resource, got, c.kind)
		}
	}
}

func TestObjScanner(t *testing.T) {
	root := fstest.MapFS{
		"objects/jw.obj": &fstest.MapFile{Data: []byte(
			"I\n800\nOBJ\n\nANIM_rotate_begin 0 1 0 sam/jetway/rotate1\n")},
		"objects/shed.obj": &fstest.MapFile{Data: []byte("I\n800\nOBJ\n")},
	}
	sc := NewObjScanner(root)

	for range 2 { // second pass exercises the cache
		if !sc.IsSamJetway("objects/jw.obj") {
			t.Errorf("jw.obj not recognized")
		}
		if sc.IsSamJetway("objects/shed.obj") {
			t.Errorf("shed.obj misrecognized")
		}
		if sc.IsSamJetway("objects/missing.obj") {
			t.Errorf("missing file misrecognized")
		}
	}

	cl := NewClassifier(sc)
	if got := cl.Classify("objects/jw.obj"); got != KindFixed {
		t.Errorf("Classify via scanner = %s, expected fixed", got)
	}
}

func TestManifestRoundTrip(t *testing.T) {
	cfg := testConfig()
	m := NewManifest(cfg)
	m.Add("Earth nav data/+40+010/+49+011.dsf", []Record{
		{Name: "Gate 11", Kind: KindFixed, Style: cfg.Style, TunnelCode: 2, Matched: true},
	})
	m.Add("Earth nav data/+40+010/empty.dsf", nil) // not recorded

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	m2, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(m2.Files) != 1 {
		t.Fatalf("got %d files, expected 1", len(m2.Files))
	}
	if !reflect.DeepEqual(m, m2) {
		t.Errorf("manifest did not round-trip:\n%+v\n%+v", m, m2)
	}
}
