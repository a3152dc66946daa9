package service

import (
	"testing"

	"mekarsari-pos/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAdjustment(t *testing.T) {
	cases := []struct {
		qty    string
		reason string
		want   model.ChangeType
	}{
		{"-2", "bahan busuk", model.ChangeWaste},
		{"-1", "Kemasan RUSAK saat kirim", model.ChangeWaste},
		{"-3", "expired sejak minggu lalu", model.ChangeWaste},
		{"-1", "dibuang karena jamur", model.ChangeWaste},
		{"-5", "selisih stok opname", model.ChangeAdjustment},
		{"-2", "", model.ChangeAdjustment},
		{"3", "barang busuk dikembalikan", model.ChangeAdjustment}, // positive is never waste
		{"1", "koreksi", model.ChangeAdjustment},
	}

	for _, tc := range cases {
		got := classifyAdjustment(dec(t, tc.qty), tc.reason)
		assert.Equal(t, tc.want, got, "qty=%s reason=%q", tc.qty, tc.reason)
	}
}
