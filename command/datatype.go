package command

import "strconv"

// DataType describes how many bytes an allocated variable occupies.
// The set of variants is closed.
type DataType interface {
	// Size returns the number of bytes reserved for the variable.
	Size() int
	String() string
	isDataType()
}

// Data8 is a one-byte integer.
type Data8 struct{}

// Data16 is a two-byte integer.
type Data16 struct{}

// Data32 is a four-byte integer.
type Data32 struct{}

// DataF is a four-byte IEEE-754 single.
type DataF struct{}

// DataN is a fixed-length byte array of N bytes.
type DataN struct{ N int }

// DataS is a zero-terminated string of up to N characters.
// It reserves N+1 bytes for the terminator.
type DataS struct{ N int }

func (Data8) Size() int { return 1 }
func (Data16) Size() int { return 2 }
func (Data32) Size() int { return 4 }
func (DataF) Size() int { return 4 }
func (d DataN) Size() int { return d.N }
func (d DataS) Size() int { return d.N + 1 }

func (Data8) isDataType()  {}
func (Data16) isDataType() {}
func (Data32) isDataType() {}
func (DataF) isDataType()  {}
func (DataN) isDataType()  {}
func (DataS) isDataType()  {}

func (Data8) String() string { return "DATA8" }
func (Data16) String() string { return "DATA16" }
func (Data32) String() string { return "DATA32" }
func (DataF) String() string { return "DATAF" }
func (d DataN) String() string { return "DATAN(" + strconv.Itoa(d.N) + ")" }
func (d DataS) String() string { return "DATAS(" + strconv.Itoa(d.N) + ")" }

// Layout returns the total size of a sequence of data types.
func Layout(types ...DataType) int {
	total := 0
	for _, t := range types {
		total += t.Size()
	}
	return total
}
