package file

// FileNumToMidiPath numbers the inputs of a batch run so outputs can be
// named stably.
type FileNumToMidiPath = map[uint32]string

func CreateFileNumMap(paths []string) FileNumToMidiPath {
	res := make(FileNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}
