package contract

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrContractNotFound возвращается, когда договор не найден
	ErrContractNotFound = errors.New("contract.repository: contract not found")

	// ErrRangeTaken возвращается, когда ограничение исключения отвергло пересекающийся интервал
	ErrRangeTaken = errors.New("contract.repository: vehicle range already taken")

	// ErrSerialization возвращается при конфликте сериализуемой транзакции или взаимной блокировке
	ErrSerialization = errors.New("contract.repository: serialization failure")

	// ErrDuplicateID возвращается при повторной вставке договора с тем же id
	ErrDuplicateID = errors.New("contract.repository: duplicate contract id")

	// ErrTransaction возвращается, когда операция требует транзакцию
	ErrTransaction = errors.New("contract.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("contract.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("contract.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("contract.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации опций в JSONB
	ErrEncode = errors.New("contract.repository: failed to encode accessories")
)

// Коды ошибок PostgreSQL
const (
	codeExclusionViolation   = "23P01"
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Classify сопоставляет ошибку драйвера с ошибкой репозитория.
// Возвращает nil, если ошибка не относится к известным конфликтам.
// Работает и для ошибок коммита, обернутых через %w.
func Classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case codeExclusionViolation:
		return ErrRangeTaken
	case codeSerializationFailure, codeDeadlockDetected:
		return ErrSerialization
	case codeUniqueViolation:
		return ErrDuplicateID
	default:
		return nil
	}
}

// IsRangeTaken true, если ошибка означает занятость интервала
func IsRangeTaken(err error) bool {
	return errors.Is(err, ErrRangeTaken) || errors.Is(Classify(err), ErrRangeTaken)
}

// IsSerialization true, если транзакцию можно повторить
func IsSerialization(err error) bool {
	return errors.Is(err, ErrSerialization) || errors.Is(Classify(err), ErrSerialization)
}
