package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const ReferenceDateLayout = "20060102"

// MaxReferenceRetries bounds the insert retry loop when a proposed reference
// number loses a same-day race. The unique index is the enforcement; this only
// caps how often we re-propose.
const MaxReferenceRetries = 5

var seqMutex sync.Mutex

// FormatReference builds a <PREFIX>-<YYYYMMDD>-<NNN> reference number.
func FormatReference(prefix string, date time.Time, seqNo int64) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, date.Format(ReferenceDateLayout), seqNo)
}

// NextReference proposes the next reference number for model T, using an atomic
// per-prefix-per-day Redis counter seeded from the stored day maximum. The
// returned value is a candidate only: callers must insert under the column's
// unique index and retry on duplicate key (see IsDuplicateKeyError).
//
// Redis is a best-effort optimization. When it is unavailable the sequence is
// recomputed from the database maximum; correctness still rests on the index.
func NextReference[T any](ctx context.Context, prefix string, column string, date time.Time) (string, int64, error) {
	seqMutex.Lock()
	defer seqMutex.Unlock()

	day := date.Format(ReferenceDateLayout)
	cacheKey := strings.ToLower(prefix) + "_seq:" + day

	seqNo, err := config.GetRedisCounter(ctx, cacheKey)
	if err != nil {
		seqNo = 0
	}
	// cold counter (or no redis): seed from the stored day maximum
	if seqNo <= 1 {
		dbSeq, derr := maxDailySequence[T](ctx, prefix, column, day)
		if derr != nil {
			return "", 0, derr
		}
		if dbSeq >= seqNo {
			seqNo = dbSeq + 1
			// redis write failures degrade to DB-seeded candidates; the
			// unique index still enforces
			if serr := config.SetRedisCounter(ctx, cacheKey, seqNo); serr != nil {
				config.LogError(config.GetLogger(), "sequence.go", "NextReference", "failed to store sequence counter", cacheKey, serr)
			}
		}
		if seqNo == 0 {
			seqNo = 1
		}
	}

	return FormatReference(prefix, date, seqNo), seqNo, nil
}

func maxDailySequence[T any](ctx context.Context, prefix string, column string, day string) (int64, error) {
	var model T
	var dbSeq *int64
	db := config.GetDB()
	// voided rows keep their reference and stay in the sequence
	if err := db.WithContext(ctx).Unscoped().Model(&model).
		Select("max(sequence_no)").
		Where(column+" LIKE ?", prefix+"-"+day+"-%").
		Scan(&dbSeq).Error; err != nil {
		return 0, err
	}
	if dbSeq == nil {
		return 0, nil
	}
	return *dbSeq, nil
}

// IsDuplicateKeyError reports whether err came from a unique-index rejection.
func IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
