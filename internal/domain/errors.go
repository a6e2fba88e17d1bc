package domain

import "errors"

var (
	// ErrRetrieval - сбой загрузки: сеть, HTTP-статус, схема URL или файл назначения.
	ErrRetrieval = errors.New("retrieval error")
	// ErrStructure - документ не разбирается или не является RSS-лентой.
	ErrStructure = errors.New("structure error")
	// ErrAllocation - документ превышает допустимый размер.
	ErrAllocation = errors.New("allocation error")
)
