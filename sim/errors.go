package sim

import "errors"

var (
	// ErrInvalidParameter 参数退化或缺失，模拟在任何记账之前中止。
	ErrInvalidParameter = errors.New("invalid parameter")
)
