package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"github.com/bsm/redislock"
	"github.com/go-playground/validator/v10"
)

func ProcessValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			fieldName := fieldError.Field()
			errorsMap[fieldName] = fmt.Sprintf("Validation failed on field '%s' with tag '%s'", fieldName, fieldError.Tag())
		}
	}

	return errorsMap
}

func ExecTemplate(tString string, data map[string]interface{}) (string, error) {
	t, err := template.New("sql").Parse(tString)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	var def T
	if len(defaults) > 0 {
		def = defaults[0]
	}
	return def
}

// PoWriteLock serializes cross-instance writers touching the same purchase
// order. Best-effort: the MySQL row lock inside the transaction is the real
// enforcement. Callers must invoke the returned release func.
func PoWriteLock(ctx context.Context, poId int, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// no redis lock configured; rely on the row lock alone
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("po_write:%d", poId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for purchase order", poId, err)
		return nil, errors.New("could not obtain lock for purchase order")
	} else if err != nil {
		// redis outage: fall back to the row lock
		config.LogError(logger, moduleName, functionName, "Redis lock unavailable for purchase order", poId, err)
		return func() {}, nil
	}
	return func() { _ = lock.Release(ctx) }, nil
}
