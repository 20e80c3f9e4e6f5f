package memory

import "errors"

// ErrNotFound возвращается при обновлении или удалении отсутствующей сущности,
// по аналогии с проверкой RowsAffected у postgres-реализации
var ErrNotFound = errors.New("not found")
