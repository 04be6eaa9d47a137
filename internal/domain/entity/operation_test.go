package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockmaster/stockmaster-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de Operation
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_TablaCompleta(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"draft puede saltar directo a done", entity.OperationStatusDraft, entity.OperationStatusDone, true},
		{"draft puede avanzar a waiting", entity.OperationStatusDraft, entity.OperationStatusWaiting, true},
		{"draft puede avanzar a ready", entity.OperationStatusDraft, entity.OperationStatusReady, true},
		{"draft puede cancelarse", entity.OperationStatusDraft, entity.OperationStatusCanceled, true},
		{"waiting puede avanzar a ready", entity.OperationStatusWaiting, entity.OperationStatusReady, true},
		{"waiting puede saltar a done", entity.OperationStatusWaiting, entity.OperationStatusDone, true},
		{"waiting puede cancelarse", entity.OperationStatusWaiting, entity.OperationStatusCanceled, true},
		{"ready puede completarse", entity.OperationStatusReady, entity.OperationStatusDone, true},
		{"ready puede cancelarse", entity.OperationStatusReady, entity.OperationStatusCanceled, true},

		{"no hay retroceso de ready a draft", entity.OperationStatusReady, entity.OperationStatusDraft, false},
		{"no hay retroceso de waiting a draft", entity.OperationStatusWaiting, entity.OperationStatusDraft, false},
		{"done es terminal: no admite done", entity.OperationStatusDone, entity.OperationStatusDone, false},
		{"done es terminal: no admite canceled", entity.OperationStatusDone, entity.OperationStatusCanceled, false},
		{"canceled es terminal: no admite done", entity.OperationStatusCanceled, entity.OperationStatusDone, false},
		{"canceled es terminal: no admite draft", entity.OperationStatusCanceled, entity.OperationStatusDraft, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op := &entity.Operation{Status: tc.from}
			assert.Equal(t, tc.ok, op.CanTransition(tc.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, (&entity.Operation{Status: entity.OperationStatusDone}).IsTerminal())
	assert.True(t, (&entity.Operation{Status: entity.OperationStatusCanceled}).IsTerminal())
	assert.False(t, (&entity.Operation{Status: entity.OperationStatusDraft}).IsTerminal())
	assert.False(t, (&entity.Operation{Status: entity.OperationStatusWaiting}).IsTerminal())
	assert.False(t, (&entity.Operation{Status: entity.OperationStatusReady}).IsTerminal())
}

func TestValidOperationType(t *testing.T) {
	assert.True(t, entity.ValidOperationType(entity.OperationTypeReceipt))
	assert.True(t, entity.ValidOperationType(entity.OperationTypeDelivery))
	assert.True(t, entity.ValidOperationType(entity.OperationTypeTransfer))
	assert.True(t, entity.ValidOperationType(entity.OperationTypeAdjustment))
	assert.False(t, entity.ValidOperationType("devolución"))
	assert.False(t, entity.ValidOperationType(""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Descuadres de ítems de conteo
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionItem_HasDiscrepancy(t *testing.T) {
	ocho, diez := 8, 10

	sinContar := &entity.SessionItem{SystemQuantity: 10}
	assert.False(t, sinContar.HasDiscrepancy(), "un ítem sin contar nunca descuadra")

	contadoIgual := &entity.SessionItem{SystemQuantity: 10, CountedQuantity: &diez, Counted: true}
	assert.False(t, contadoIgual.HasDiscrepancy())

	contadoDistinto := &entity.SessionItem{SystemQuantity: 10, CountedQuantity: &ocho, Counted: true}
	assert.True(t, contadoDistinto.HasDiscrepancy())

	marcadoSinCantidad := &entity.SessionItem{SystemQuantity: 10, Counted: true}
	assert.False(t, marcadoSinCantidad.HasDiscrepancy(), "counted sin cantidad no cuenta como descuadre")
}
