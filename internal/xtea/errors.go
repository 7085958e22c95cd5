package xtea

import "errors"

var errLengthNotMultipleOf8 = errors.New("xtea: input length must be a multiple of 8")
