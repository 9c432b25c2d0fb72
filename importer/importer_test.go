package importer

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/rf2boot/core"
	"github.com/poiesic/rf2boot/profile"
	"github.com/poiesic/rf2boot/release"
	"github.com/poiesic/rf2boot/storage/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	conceptHeader      = "id\teffectiveTime\tactive\tmoduleId\tdefinitionStatusId"
	descriptionHeader  = "id\teffectiveTime\tactive\tmoduleId\tconceptId\tlanguageCode\ttypeId\tterm\tcaseSignificanceId"
	relationshipHeader = "id\teffectiveTime\tactive\tmoduleId\tsourceId\tdestinationId\trelationshipGroup\ttypeId\tcharacteristicTypeId\tmodifierId"
	refsetHeader       = "id\teffectiveTime\tactive\tmoduleId\trefsetId\treferencedComponentId"

	intConcepts      = "sct2_Concept_Snapshot_INT_20250101.txt"
	intDescriptions  = "sct2_Description_Snapshot-en_INT_20250101.txt"
	intRelationships = "sct2_Relationship_Snapshot_INT_20250101.txt"
	intRefset        = "der2_Refset_SimpleSnapshot_INT_20250101.txt"
	extConcepts      = "sct2_Concept_Snapshot_NL1000146_20250101.txt"
	extRelationships = "sct2_Relationship_Snapshot_NL1000146_20250101.txt"
)

// writeFile writes an RF2 file made of a header and tab-joined rows.
func writeFile(t *testing.T, dir, name, header string, rows ...[]string) string {
	t.Helper()
	lines := []string{header}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func concept(id, active string) []string {
	return []string{id, "20020131", active, "900000000000207008", core.Primitive}
}

func fsn(id, conceptID, term string) []string {
	return []string{id, "20020131", "1", "900000000000207008", conceptID, "en", core.FSN, term, "900000000000448009"}
}

func isA(id, active, source, destination string) []string {
	return []string{id, "20020131", active, "900000000000207008", source, destination, "0", core.IsA, core.InferredRelationship, "900000000000451002"}
}

func member(id, refsetID, componentID string) []string {
	return []string{id, "20020131", "1", "900000000000207008", refsetID, componentID}
}

func newTestImporter(t *testing.T, opts ...Option) (*Importer, *memory.ComponentStore) {
	t.Helper()
	store := memory.NewComponentStore(nil)
	t.Cleanup(func() { store.Close() })
	imp, err := NewImporter(store, opts...)
	require.NoError(t, err)
	t.Cleanup(imp.Release)
	return imp, store
}

func TestNewImporter_Validation(t *testing.T) {
	_, err := NewImporter(nil)
	assert.ErrorIs(t, err, ErrFactoryRequired)

	imp, _ := newTestImporter(t, WithPoolSize(0), WithLogger(nil))
	assert.Equal(t, 1, imp.pool.Cap())

	_, err = imp.Load(context.Background(), t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestLoad_SingleConceptWithLabel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intDescriptions, descriptionHeader, fsn("101013", "100005", "Example concept"))

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	require.Len(t, concepts, 1)
	c := concepts["100005"]
	require.NotNil(t, c)
	assert.Equal(t, "100005", c.ID)
	assert.True(t, c.Active)
	assert.Equal(t, "Example concept", c.FSN)
	assert.Empty(t, c.ParentIDs())
}

func TestLoad_InactiveConceptDropped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "0"))
	writeFile(t, dir, intDescriptions, descriptionHeader, fsn("101013", "100005", "Example concept"))

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.Light())
	require.NoError(t, err)
	assert.Empty(t, concepts)
}

func TestLoad_InactiveConceptKept(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "0"))

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.New(profile.WithInactiveConcepts(true)))
	require.NoError(t, err)
	require.Contains(t, concepts, "100005")
	assert.False(t, concepts["100005"].Active)
}

func TestLoad_SetupErrors(t *testing.T) {
	imp, _ := newTestImporter(t)

	_, err := imp.Load(context.Background(), filepath.Join(t.TempDir(), "missing"), profile.Light())
	assert.ErrorIs(t, err, release.ErrReleaseDirNotFound)

	dir := t.TempDir()
	writeFile(t, dir, intDescriptions, descriptionHeader, fsn("101013", "100005", "Example concept"))
	_, err = imp.Load(context.Background(), dir, profile.Light())
	assert.ErrorIs(t, err, release.ErrMissingFile)

	strict, _ := newTestImporter(t, WithRequiredRoles(release.RoleConcept, release.RoleRelationship))
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	_, err = strict.Load(context.Background(), dir, profile.Light())
	assert.ErrorIs(t, err, release.ErrMissingFile)
}

func TestLoad_InactiveRelationshipsFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"), concept("138875005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader,
		isA("100022", "0", "100005", "138875005"))

	imp, store := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.New(profile.WithFullRelationshipObjects(true)))
	require.NoError(t, err)

	assert.Empty(t, concepts["100005"].ParentIDs())
	assert.Equal(t, 0, store.Archive().Count().Relationships)
}

func TestLoad_RefsetFiltering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRefset, refsetHeader,
		member("m1", "900000000000508004", "100005"),
		member("m2", "900000000000509007", "100005"))

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.New(profile.WithRefsets("900000000000509007")))
	require.NoError(t, err)

	c := concepts["100005"]
	assert.Equal(t, []string{"900000000000509007"}, c.MemberOfRefsets)
	assert.False(t, c.IsMemberOfRefset("900000000000508004"))
}

func TestLoad_RefsetIDsAssignedAfterNew(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRefset, refsetHeader, member("m1", "900000000000509007", "100005"))

	p := profile.New()
	p.RefsetIDs = []string{" 900000000000509007 "}

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, p)
	require.NoError(t, err)

	assert.Equal(t, []string{"900000000000509007"}, concepts["100005"].MemberOfRefsets)
}

func TestImport_RefsetFilesSkippedWithoutTrackedRefsets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRefset, refsetHeader, member("m1", "900000000000509007", "100005"))

	imp, _ := newTestImporter(t)
	report, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	require.Len(t, report.Tasks, 1)
	assert.Equal(t, ComponentConcepts, report.Tasks[0].Component)
}

func TestLoad_DanglingParentDoesNotFail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader,
		isA("100022", "1", "999999001", "100005"),
		isA("100023", "1", "100005", "888888001"))

	imp, store := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	assert.Equal(t, []string{"888888001"}, concepts["100005"].ParentIDs())
	assert.NotContains(t, concepts, "999999001")
	assert.Equal(t, []memory.Edge{{SourceID: "999999001", DestinationID: "100005"}}, store.DanglingEdges())
}

func TestLoad_ExtensionParentsMerged(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader, isA("100022", "1", "100005", "138875005"))
	writeFile(t, dir, filepath.Join("extension", extRelationships), relationshipHeader, isA("200022", "1", "100005", "404684003"))

	imp, _ := newTestImporter(t, WithPoolSize(4))
	report, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"138875005", "404684003"}, imp.factory.Concepts()["100005"].ParentIDs())
	assert.True(t, report.Extension.AnyFilesFound())
	assert.Empty(t, report.Failed())
}

func TestLoad_RelationshipOnlyBundles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intRelationships, relationshipHeader, isA("100022", "1", "100005", "138875005"))
	writeFile(t, dir, filepath.Join("extension", extRelationships), relationshipHeader, isA("200022", "1", "100005", "404684003"))

	imp, store := newTestImporter(t, WithPoolSize(4), WithRequiredRoles())
	report, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	assert.Empty(t, report.Failed())
	assert.Len(t, report.Tasks, 2)
	assert.Empty(t, store.Concepts())
	assert.ElementsMatch(t, []memory.Edge{
		{SourceID: "100005", DestinationID: "138875005"},
		{SourceID: "100005", DestinationID: "404684003"},
	}, store.DanglingEdges())
}

func TestLoad_ExtensionConceptsAfterInternational(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, extConcepts, conceptHeader,
		[]string{"100005", "20250301", "1", "11000146104", core.Defined},
		concept("1000146101", "1"))
	writeFile(t, dir, extRelationships, relationshipHeader, isA("200022", "1", "1000146101", "100005"))

	imp, _ := newTestImporter(t)
	concepts, err := imp.Load(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	require.Len(t, concepts, 2)
	assert.Equal(t, "11000146104", concepts["100005"].ModuleID)
	assert.Equal(t, core.Defined, concepts["100005"].DefinitionStatusID)
	assert.Equal(t, []string{"100005"}, concepts["1000146101"].ParentIDs())
}

func TestLoad_ConcurrentAppendsToSameConcept(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))

	// Many relationship and description rows for one concept, loaded by two
	// concurrent tasks per bundle.
	var rels [][]string
	for i := range 500 {
		rels = append(rels, []string{"r" + itoa(i), "20020131", "1", "900000000000207008", "100005", "p" + itoa(i), "0", "363698007", core.InferredRelationship, "900000000000451002"})
	}
	writeFile(t, dir, intRelationships, relationshipHeader, rels...)
	writeFile(t, dir, intDescriptions, descriptionHeader, fsn("101013", "100005", "Example concept"))
	writeFile(t, dir, extRelationships, relationshipHeader, isA("200022", "1", "100005", "404684003"))

	imp, _ := newTestImporter(t, WithPoolSize(4))
	concepts, err := imp.Load(context.Background(), dir, profile.New(profile.WithAttributeMapOnConcept(true)))
	require.NoError(t, err)

	c := concepts["100005"]
	assert.Len(t, c.AttributeValues("363698007"), 500)
	assert.Equal(t, []string{"404684003"}, c.ParentIDs())
	assert.Equal(t, "Example concept", c.FSN)
}

func TestImport_TaskFailureIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader,
		isA("100022", "1", "100005", "138875005"),
		[]string{"100023", "20020131", "1"})
	writeFile(t, dir, intDescriptions, descriptionHeader, fsn("101013", "100005", "Example concept"))

	imp, _ := newTestImporter(t)
	report, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, ComponentRelationships, failed[0].Component)
	assert.Equal(t, int64(1), failed[0].Rows)
	assert.Error(t, report.Err())

	// Rows before the failure and sibling tasks are kept.
	c := imp.factory.Concepts()["100005"]
	assert.Equal(t, []string{"138875005"}, c.ParentIDs())
	assert.Equal(t, "Example concept", c.FSN)
	assert.Equal(t, 1, report.Concepts)
}

func TestImport_ConceptFileFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, []string{"100005", "20020131"})

	imp, _ := newTestImporter(t)
	_, err := imp.Import(context.Background(), dir, profile.Light())
	assert.ErrorIs(t, err, ErrConceptLoad)
}

func TestImport_CancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	imp, _ := newTestImporter(t)
	_, err := imp.Load(ctx, dir, profile.Light())
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
}

// blockingFactory blocks parent edges until released.
type blockingFactory struct {
	*memory.ComponentStore
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *blockingFactory) AddConceptParent(sourceID, destinationID string) error {
	f.once.Do(func() { close(f.started) })
	<-f.release
	return f.ComponentStore.AddConceptParent(sourceID, destinationID)
}

func TestImport_InterruptedWhileWaitingOnBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader, isA("100022", "1", "100005", "138875005"))

	factory := &blockingFactory{
		ComponentStore: memory.NewComponentStore(nil),
		started:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	defer close(factory.release)

	imp, err := NewImporter(factory)
	require.NoError(t, err)
	defer imp.Release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-factory.started
		cancel()
	}()

	_, err = imp.Import(ctx, dir, profile.Light())
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestImport_Metrics(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"), concept("100006", "0"))
	writeFile(t, dir, intRelationships, relationshipHeader,
		isA("100022", "1", "100005", "138875005"),
		[]string{"bad"})

	reg := prometheus.NewRegistry()
	imp, _ := newTestImporter(t, WithMetrics(reg))
	_, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	m := imp.metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowsRead.WithLabelValues(string(ComponentConcepts))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsAccepted.WithLabelValues(string(ComponentConcepts))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsAccepted.WithLabelValues(string(ComponentRelationships))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.taskFailures.WithLabelValues(string(ComponentRelationships))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.taskFailures.WithLabelValues(string(ComponentConcepts))))

	// Registering twice on the same registry fails.
	_, err = NewImporter(memory.NewComponentStore(nil), WithMetrics(reg))
	assert.Error(t, err)
}

func TestImport_ReportSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, intConcepts, conceptHeader, concept("100005", "1"), concept("138875005", "1"))
	writeFile(t, dir, intRelationships, relationshipHeader, isA("100022", "1", "100005", "138875005"))

	imp, _ := newTestImporter(t)
	report, err := imp.Import(context.Background(), dir, profile.Light())
	require.NoError(t, err)

	assert.NotEmpty(t, report.Run)
	assert.Equal(t, 2, report.Concepts)
	assert.Equal(t, int64(3), report.RowsRead())
	assert.NoError(t, report.Err())
	assert.NotZero(t, report.HeapInUse)
	assert.False(t, report.Extension.AnyFilesFound())
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
