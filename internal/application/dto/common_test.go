package dto_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/SalesERP-api/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		name       string
		in         dto.PageRequest
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{"valores por defecto", dto.PageRequest{}, 1, dto.DefaultPerPage, 0},
		{"negativos", dto.PageRequest{Page: -3, PerPage: -1}, 1, dto.DefaultPerPage, 0},
		{"per_page recortado", dto.PageRequest{Page: 2, PerPage: 500}, 2, dto.MaxPerPage, dto.MaxPerPage},
		{"página enorme", dto.PageRequest{Page: math.MaxInt, PerPage: 100}, dto.MaxPage, 100, (dto.MaxPage - 1) * 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.in
			p.Normalize()
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantPer, p.PerPage)
			assert.Equal(t, tc.wantOffset, p.Offset())
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}
