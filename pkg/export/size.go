package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

// ConvertSize renders a byte count as a human-readable size with two
// decimal places ("12.34 MB"). Negative sizes render as "Error", since
// they only occur when a file listing carried no usable size data.
func ConvertSize(sizeBytes int64) string {
	if sizeBytes < 0 {
		return "Error"
	}
	if sizeBytes == 0 {
		return "0B"
	}
	i := int(math.Floor(math.Log(float64(sizeBytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	s := float64(sizeBytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%s %s", trimZeros(s), sizeUnits[i])
}

// trimZeros formats with two decimals, then drops trailing zeros so that
// 1.50 renders as 1.5 and 2.00 as 2.0.
func trimZeros(f float64) string {
	s := strconv.FormatFloat(math.Round(f*100)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
