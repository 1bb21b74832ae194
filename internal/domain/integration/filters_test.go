package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceivingFilter_Validate(t *testing.T) {
	tests := []struct {
		name     string
		dateFrom string
		dateTo   string
		wantErr  error
	}{
		{name: "no dates", wantErr: nil},
		{name: "from only", dateFrom: "2024-05-01", wantErr: nil},
		{name: "to only", dateTo: "2024-05-01", wantErr: nil},
		{name: "ordered range", dateFrom: "2024-05-01", dateTo: "2024-05-10", wantErr: nil},
		{name: "single day", dateFrom: "2024-05-01", dateTo: "2024-05-01", wantErr: nil},
		{name: "reversed range", dateFrom: "2024-05-10", dateTo: "2024-05-01", wantErr: ErrInvalidDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &ReceivingFilter{DateFrom: tt.dateFrom, DateTo: tt.dateTo}
			s := &ShippingFilter{DateFrom: tt.dateFrom, DateTo: tt.dateTo}

			if tt.wantErr == nil {
				assert.NoError(t, f.Validate())
				assert.NoError(t, s.Validate())
			} else {
				assert.ErrorIs(t, f.Validate(), tt.wantErr)
				assert.ErrorIs(t, s.Validate(), tt.wantErr)
			}
		})
	}
}
