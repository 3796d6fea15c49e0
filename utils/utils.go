package utils

import "time"

const fileTimestampLayout = "02-01-2006-15-04-05"

func ContainsString(targetString string, sliceOfStrings []string) bool {
	for i := range sliceOfStrings {
		if sliceOfStrings[i] == targetString {
			return true
		}
	}
	return false
}

// FileTimestamp formats t as DD-MM-YYYY-HH-MM-SS, the suffix used by snapshot files and index directories
func FileTimestamp(t time.Time) string {
	return t.Format(fileTimestampLayout)
}
