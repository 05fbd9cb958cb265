package domain

import (
	"github.com/Tombstone73/quotevault-backend/internal/domain/catalog"
	"github.com/Tombstone73/quotevault-backend/internal/domain/orders"
)

const (
	TreeStatusDraft    = catalog.TreeStatusDraft
	TreeStatusActive   = catalog.TreeStatusActive
	TreeStatusArchived = catalog.TreeStatusArchived

	NodeKindQuestion = catalog.NodeKindQuestion
	NodeKindGroup    = catalog.NodeKindGroup
	NodeKindComputed = catalog.NodeKindComputed

	InputTypeBoolean     = catalog.InputTypeBoolean
	InputTypeSelect      = catalog.InputTypeSelect
	InputTypeMultiselect = catalog.InputTypeMultiselect
	InputTypeNumber      = catalog.InputTypeNumber
	InputTypeText        = catalog.InputTypeText
	InputTypeTextarea    = catalog.InputTypeTextarea
	InputTypeFile        = catalog.InputTypeFile
	InputTypeDimension   = catalog.InputTypeDimension

	GraphStatusEnabled  = catalog.GraphStatusEnabled
	GraphStatusDisabled = catalog.GraphStatusDisabled
	GraphStatusDeleted  = catalog.GraphStatusDeleted

	OrderStatusDraft        = orders.OrderStatusDraft
	OrderStatusConfirmed    = orders.OrderStatusConfirmed
	OrderStatusInProduction = orders.OrderStatusInProduction
	OrderStatusComplete     = orders.OrderStatusComplete
	OrderStatusCancelled    = orders.OrderStatusCancelled

	ComponentStatusAccepted = orders.ComponentStatusAccepted
	ComponentStatusVoided   = orders.ComponentStatusVoided

	ComponentKindInlineSKU  = orders.ComponentKindInlineSKU
	ComponentKindProductRef = orders.ComponentKindProductRef

	InvoiceVisibilityHidden       = orders.InvoiceVisibilityHidden
	InvoiceVisibilityRollup       = orders.InvoiceVisibilityRollup
	InvoiceVisibilitySeparateLine = orders.InvoiceVisibilitySeparateLine
)

type (
	Product           = catalog.Product
	OptionTreeVersion = catalog.OptionTreeVersion
	OptionNode        = catalog.OptionNode
	OptionEdge        = catalog.OptionEdge

	Order             = orders.Order
	OrderLineItem     = orders.OrderLineItem
	LineItemComponent = orders.LineItemComponent
)
