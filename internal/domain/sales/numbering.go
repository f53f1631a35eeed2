package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de numeración.
const (
	QuotationPrefix = "QT"
	InvoicePrefix   = "INV"
)

// DocumentNumber genera PREFIX-YYYYMMDD-XXXXXXXX con 8 hex en mayúsculas de un uuid nuevo.
func DocumentNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return prefix + "-" + now.Format("20060102") + "-" + suffix
}
