package services

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

type fakeProductRepo struct {
	products map[uuid.UUID]*types.Product
}

func newFakeProductRepo(rows ...*types.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: map[uuid.UUID]*types.Product{}}
	for _, p := range rows {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) Create(_ dbctx.Context, rows []*types.Product) ([]*types.Product, error) {
	for _, p := range rows {
		f.products[p.ID] = p
	}
	return rows, nil
}

type fakeTreeRepo struct {
	versions map[uuid.UUID]*types.OptionTreeVersion
	nodes    map[uuid.UUID][]*types.OptionNode
	edges    map[uuid.UUID][]*types.OptionEdge
}

func newFakeTreeRepo() *fakeTreeRepo {
	return &fakeTreeRepo{
		versions: map[uuid.UUID]*types.OptionTreeVersion{},
		nodes:    map[uuid.UUID][]*types.OptionNode{},
		edges:    map[uuid.UUID][]*types.OptionEdge{},
	}
}

func (f *fakeTreeRepo) addVersion(v *types.OptionTreeVersion, nodes []*types.OptionNode, edges []*types.OptionEdge) {
	f.versions[v.ID] = v
	f.nodes[v.ID] = nodes
	f.edges[v.ID] = edges
}

func (f *fakeTreeRepo) GetVersionByID(_ dbctx.Context, id uuid.UUID) (*types.OptionTreeVersion, error) {
	return f.versions[id], nil
}

func (f *fakeTreeRepo) GetLatestActiveByProduct(_ dbctx.Context, productID uuid.UUID) (*types.OptionTreeVersion, error) {
	var out []*types.OptionTreeVersion
	for _, v := range f.versions {
		if v.ProductID == productID && v.Status == types.TreeStatusActive {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out[0], nil
}

func (f *fakeTreeRepo) ListNodesByVersion(_ dbctx.Context, versionID uuid.UUID) ([]*types.OptionNode, error) {
	return f.nodes[versionID], nil
}

func (f *fakeTreeRepo) ListEdgesByVersion(_ dbctx.Context, versionID uuid.UUID) ([]*types.OptionEdge, error) {
	return f.edges[versionID], nil
}

func (f *fakeTreeRepo) CreateVersion(_ dbctx.Context, row *types.OptionTreeVersion) error {
	f.versions[row.ID] = row
	return nil
}

func (f *fakeTreeRepo) CreateNodes(_ dbctx.Context, rows []*types.OptionNode) error {
	for _, n := range rows {
		f.nodes[n.TreeVersionID] = append(f.nodes[n.TreeVersionID], n)
	}
	return nil
}

func (f *fakeTreeRepo) CreateEdges(_ dbctx.Context, rows []*types.OptionEdge) error {
	for _, e := range rows {
		f.edges[e.TreeVersionID] = append(f.edges[e.TreeVersionID], e)
	}
	return nil
}

type staleAck struct {
	actor string
	at    time.Time
}

type fakeLineItemRepo struct {
	items             map[uuid.UUID]*types.OrderLineItem
	replacedSnapshots int
	updatedSelections int
	staleAcks         []staleAck
}

func newFakeLineItemRepo(rows ...*types.OrderLineItem) *fakeLineItemRepo {
	f := &fakeLineItemRepo{items: map[uuid.UUID]*types.OrderLineItem{}}
	for _, li := range rows {
		f.items[li.ID] = li
	}
	return f
}

func (f *fakeLineItemRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.OrderLineItem, error) {
	return f.items[id], nil
}

func (f *fakeLineItemRepo) Create(_ dbctx.Context, rows []*types.OrderLineItem) ([]*types.OrderLineItem, error) {
	for _, li := range rows {
		f.items[li.ID] = li
	}
	return rows, nil
}

func (f *fakeLineItemRepo) UpdateSelections(_ dbctx.Context, id uuid.UUID, selections datatypes.JSON) error {
	f.updatedSelections++
	if li, ok := f.items[id]; ok {
		li.ConfigSelections = selections
	}
	return nil
}

func (f *fakeLineItemRepo) ReplaceSnapshot(_ dbctx.Context, id uuid.UUID, snapshot datatypes.JSON, treeVersionID uuid.UUID, signature string, takenAt time.Time) error {
	f.replacedSnapshots++
	if li, ok := f.items[id]; ok {
		li.ConfigSnapshot = snapshot
		li.SnapshotTreeVersionID = &treeVersionID
		li.SnapshotSignature = signature
		t := takenAt
		li.SnapshotTakenAt = &t
		li.StaleAckAt = nil
		li.StaleAckBy = ""
	}
	return nil
}

func (f *fakeLineItemRepo) StampStaleAck(_ dbctx.Context, id uuid.UUID, actor string, at time.Time) error {
	f.staleAcks = append(f.staleAcks, staleAck{actor: actor, at: at})
	if li, ok := f.items[id]; ok {
		t := at
		li.StaleAckAt = &t
		li.StaleAckBy = actor
	}
	return nil
}

type fakeComponentRepo struct {
	rows        map[uuid.UUID]*types.LineItemComponent
	upsertCalls int
	voidCalls   int
}

func newFakeComponentRepo(rows ...*types.LineItemComponent) *fakeComponentRepo {
	f := &fakeComponentRepo{rows: map[uuid.UUID]*types.LineItemComponent{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeComponentRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.LineItemComponent, error) {
	return f.rows[id], nil
}

func (f *fakeComponentRepo) ListByLineItem(_ dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error) {
	return f.list(lineItemID, ""), nil
}

func (f *fakeComponentRepo) ListAcceptedByLineItem(_ dbctx.Context, lineItemID uuid.UUID) ([]*types.LineItemComponent, error) {
	return f.list(lineItemID, types.ComponentStatusAccepted), nil
}

func (f *fakeComponentRepo) list(lineItemID uuid.UUID, status string) []*types.LineItemComponent {
	var out []*types.LineItemComponent
	for _, r := range f.rows {
		if r.OrderLineItemID != lineItemID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.SourceNodeID != b.SourceNodeID {
			return a.SourceNodeID.String() < b.SourceNodeID.String()
		}
		return a.EffectIndex < b.EffectIndex
	})
	return out
}

func (f *fakeComponentRepo) UpsertAccepted(_ dbctx.Context, rows []*types.LineItemComponent) error {
	if len(rows) == 0 {
		return nil
	}
	f.upsertCalls++
	for _, row := range rows {
		row.Status = types.ComponentStatusAccepted
		row.VoidedAt = nil
		// Emulate the partial unique index conflict resolution.
		for _, existing := range f.rows {
			if existing.Status == types.ComponentStatusAccepted &&
				existing.OrderLineItemID == row.OrderLineItemID &&
				existing.SourceNodeID == row.SourceNodeID &&
				existing.EffectIndex == row.EffectIndex {
				delete(f.rows, existing.ID)
			}
		}
		f.rows[row.ID] = row
	}
	return nil
}

func (f *fakeComponentRepo) VoidByIDs(_ dbctx.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	f.voidCalls++
	for _, id := range ids {
		if r, ok := f.rows[id]; ok {
			r.Status = types.ComponentStatusVoided
			t := at
			r.VoidedAt = &t
		}
	}
	return nil
}
