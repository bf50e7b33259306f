package redisutils

import (
	"strconv"
	"strings"
)

// FormatID() formats a nodeID or topicID (uint32) into a string
func FormatID(ID uint32) string {
	return strconv.FormatUint(uint64(ID), 10)
}

// FormatIDs() formats a slice of IDs into a slice of strings, ready for SADD.
func FormatIDs(IDs []uint32) []string {
	strIDs := make([]string, len(IDs))
	for i, ID := range IDs {
		strIDs[i] = FormatID(ID)
	}
	return strIDs
}

// ParseID() parses a nodeID or topicID (uint32) from the specified string
func ParseID(strVal string) (uint32, error) {
	parsedVal, err := strconv.ParseUint(strVal, 10, 32)
	return uint32(parsedVal), err
}

// ParseIDs() parses a slice of IDs from a slice of strings.
func ParseIDs(strIDs []string) ([]uint32, error) {
	IDs := make([]uint32, len(strIDs))
	for i, strID := range strIDs {
		ID, err := ParseID(strID)
		if err != nil {
			return nil, err
		}
		IDs[i] = ID
	}
	return IDs, nil
}

// JoinIDs() joins the IDs with commas into a single string, e.g. "1,4,9".
func JoinIDs(IDs []uint32) string {
	return strings.Join(FormatIDs(IDs), ",")
}

// SplitIDs() parses a string produced by JoinIDs.
func SplitIDs(strIDs string) ([]uint32, error) {
	if len(strIDs) == 0 {
		return nil, nil
	}
	return ParseIDs(strings.Split(strIDs, ","))
}

// FormatVector() formats a vector of floats into a comma separated string.
// The shortest representation that parses back to the same float is used.
func FormatVector(vector []float64) string {
	strVals := make([]string, len(vector))
	for i, val := range vector {
		strVals[i] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	return strings.Join(strVals, ",")
}

// ParseVector() parses a string produced by FormatVector.
func ParseVector(strVector string) ([]float64, error) {
	if len(strVector) == 0 {
		return []float64{}, nil
	}

	strVals := strings.Split(strVector, ",")
	vector := make([]float64, len(strVals))
	for i, str := range strVals {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, err
		}
		vector[i] = val
	}
	return vector, nil
}

// ParseInt() parses an int from the specified string
func ParseInt(strVal string) (int, error) {
	parsedVal, err := strconv.ParseInt(strVal, 10, 64)
	return int(parsedVal), err
}
