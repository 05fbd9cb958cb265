package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogrepos "github.com/Tombstone73/quotevault-backend/internal/data/repos/catalog"
	"github.com/Tombstone73/quotevault-backend/internal/db"
	types "github.com/Tombstone73/quotevault-backend/internal/domain"
	"github.com/Tombstone73/quotevault-backend/internal/platform/dbctx"
	"github.com/Tombstone73/quotevault-backend/internal/platform/logger"
	"github.com/Tombstone73/quotevault-backend/internal/utils"
)

// seedcatalog loads a YAML catalog file and inserts the products and
// option trees it describes. Edges reference nodes by key, so a tree can
// be authored without knowing any UUIDs.

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	Name           string    `yaml:"name"`
	SKU            string    `yaml:"sku"`
	BasePriceCents int64     `yaml:"base_price_cents"`
	Tree           *seedTree `yaml:"tree"`
}

type seedTree struct {
	Version int        `yaml:"version"`
	Status  string     `yaml:"status"`
	Label   string     `yaml:"label"`
	Pin     bool       `yaml:"pin"`
	Nodes   []seedNode `yaml:"nodes"`
	Edges   []seedEdge `yaml:"edges"`
}

type seedNode struct {
	Key        string `yaml:"key"`
	Kind       string `yaml:"kind"`
	Label      string `yaml:"label"`
	InputType  string `yaml:"input_type"`
	Required   bool   `yaml:"required"`
	SortOrder  int    `yaml:"sort_order"`
	Status     string `yaml:"status"`
	Default    any    `yaml:"default"`
	Choices    any    `yaml:"choices"`
	Pricing    any    `yaml:"pricing"`
	Materials  any    `yaml:"materials"`
	ChildItems any    `yaml:"child_items"`
}

type seedEdge struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Priority  int    `yaml:"priority"`
	Status    string `yaml:"status"`
	Condition any    `yaml:"condition"`
}

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	path := utils.GetEnv("CATALOG_FILE", "catalog.yaml", log)
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("Failed to read catalog file", "path", path, "error", err)
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		log.Fatal("Failed to parse catalog file", "path", path, "error", err)
	}
	if len(file.Products) == 0 {
		log.Fatal("Catalog file contains no products", "path", path)
	}

	database, err := db.NewDatabaseService(log)
	if err != nil {
		log.Fatal("Failed to init database", "error", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Fatal("Database automigrate failed", "error", err)
	}
	theDB := database.DB()

	products := catalogrepos.NewProductRepo(theDB, log)
	trees := catalogrepos.NewOptionTreeRepo(theDB, log)

	ctx := context.Background()
	for _, sp := range file.Products {
		err := theDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return seedOne(dbctx.Context{Ctx: ctx, Tx: tx}, tx, products, trees, sp)
		})
		if err != nil {
			log.Fatal("Failed to seed product", "name", sp.Name, "error", err)
		}
		log.Info("Seeded product", "name", sp.Name, "sku", sp.SKU)
	}
}

func seedOne(dbc dbctx.Context, tx *gorm.DB, products catalogrepos.ProductRepo, trees catalogrepos.OptionTreeRepo, sp seedProduct) error {
	product := &types.Product{
		ID:             uuid.New(),
		Name:           sp.Name,
		SKU:            sp.SKU,
		BasePriceCents: sp.BasePriceCents,
		Active:         true,
	}
	if _, err := products.Create(dbc, []*types.Product{product}); err != nil {
		return fmt.Errorf("create product %q: %w", sp.Name, err)
	}
	if sp.Tree == nil {
		return nil
	}

	st := sp.Tree
	status := st.Status
	if status == "" {
		status = types.TreeStatusActive
	}
	versionNum := st.Version
	if versionNum == 0 {
		versionNum = 1
	}
	version := &types.OptionTreeVersion{
		ID:        uuid.New(),
		ProductID: product.ID,
		Version:   versionNum,
		Status:    status,
		Label:     st.Label,
	}
	if err := trees.CreateVersion(dbc, version); err != nil {
		return fmt.Errorf("create tree version for %q: %w", sp.Name, err)
	}

	nodeIDs := make(map[string]uuid.UUID, len(st.Nodes))
	nodes := make([]*types.OptionNode, 0, len(st.Nodes))
	for _, sn := range st.Nodes {
		if sn.Key == "" {
			return fmt.Errorf("node in %q is missing a key", sp.Name)
		}
		if _, dup := nodeIDs[sn.Key]; dup {
			return fmt.Errorf("duplicate node key %q in %q", sn.Key, sp.Name)
		}
		nodeStatus := sn.Status
		if nodeStatus == "" {
			nodeStatus = types.GraphStatusEnabled
		}
		n := &types.OptionNode{
			ID:            uuid.New(),
			TreeVersionID: version.ID,
			Kind:          sn.Kind,
			Key:           sn.Key,
			Label:         sn.Label,
			InputType:     sn.InputType,
			Required:      sn.Required,
			SortOrder:     sn.SortOrder,
			Status:        nodeStatus,
		}
		var err error
		if n.DefaultValue, err = toJSON(sn.Default); err != nil {
			return fmt.Errorf("node %q default: %w", sn.Key, err)
		}
		if n.Choices, err = toJSON(sn.Choices); err != nil {
			return fmt.Errorf("node %q choices: %w", sn.Key, err)
		}
		if n.PricingImpact, err = toJSON(sn.Pricing); err != nil {
			return fmt.Errorf("node %q pricing: %w", sn.Key, err)
		}
		if n.MaterialEffects, err = toJSON(sn.Materials); err != nil {
			return fmt.Errorf("node %q materials: %w", sn.Key, err)
		}
		if n.ChildItemEffects, err = toJSON(sn.ChildItems); err != nil {
			return fmt.Errorf("node %q child items: %w", sn.Key, err)
		}
		nodeIDs[sn.Key] = n.ID
		nodes = append(nodes, n)
	}
	if err := trees.CreateNodes(dbc, nodes); err != nil {
		return fmt.Errorf("create nodes for %q: %w", sp.Name, err)
	}

	edges := make([]*types.OptionEdge, 0, len(st.Edges))
	for _, se := range st.Edges {
		fromID, ok := nodeIDs[se.From]
		if !ok {
			return fmt.Errorf("edge in %q references unknown node %q", sp.Name, se.From)
		}
		toID, ok := nodeIDs[se.To]
		if !ok {
			return fmt.Errorf("edge in %q references unknown node %q", sp.Name, se.To)
		}
		edgeStatus := se.Status
		if edgeStatus == "" {
			edgeStatus = types.GraphStatusEnabled
		}
		cond, err := toJSON(normalizeCondition(se.Condition, nodeIDs))
		if err != nil {
			return fmt.Errorf("edge %s->%s condition: %w", se.From, se.To, err)
		}
		edges = append(edges, &types.OptionEdge{
			ID:            uuid.New(),
			TreeVersionID: version.ID,
			FromNodeID:    fromID,
			ToNodeID:      toID,
			Condition:     cond,
			Priority:      se.Priority,
			Status:        edgeStatus,
		})
	}
	if err := trees.CreateEdges(dbc, edges); err != nil {
		return fmt.Errorf("create edges for %q: %w", sp.Name, err)
	}

	if st.Pin {
		if err := tx.WithContext(dbc.Ctx).
			Model(&types.Product{}).
			Where("id = ?", product.ID).
			Update("config_tree_version_id", version.ID).Error; err != nil {
			return fmt.Errorf("pin tree version for %q: %w", sp.Name, err)
		}
	}
	return nil
}

// normalizeCondition rewrites a condition's `node` key into the freshly
// generated node id under `nodeId`, so YAML authors never deal with UUIDs.
func normalizeCondition(cond any, nodeIDs map[string]uuid.UUID) any {
	m, ok := cond.(map[string]any)
	if !ok {
		return cond
	}
	key, ok := m["node"].(string)
	if !ok {
		return cond
	}
	id, found := nodeIDs[key]
	if !found {
		return cond
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k == "node" {
			continue
		}
		out[k] = v
	}
	out["nodeId"] = id.String()
	return out
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
