package rom

import "fmt"

// GetImageOffset resolves resource id to the ROM offset of its first
// byte. Two bounds checks guard it, per spec: the resource table entry
// must fit in the image, and the resolved offset must leave room for
// the 4-byte
// image header. Both failures are fatal — the firmware never requests
// an id it didn't itself embed.
func (r *ROM) GetImageOffset(id uint32) (uint32, error) {
	tab := r.ResourceTableOffset()
	entryOff := uint64(tab) + resourceEntrySize*uint64(id) + resourceEntrySize
	if entryOff > uint64(len(r.Data)) {
		return 0, fmt.Errorf("rom: resource %d table entry at 0x%06X beyond image length %d", id, entryOff, len(r.Data))
	}

	offset := readU24(r.Data, int(tab)+resourceEntrySize*int(id))
	if uint64(offset)+4 > uint64(len(r.Data)) {
		return 0, fmt.Errorf("rom: resource %d offset 0x%06X leaves no room for header", id, offset)
	}
	return offset, nil
}

// ResourceEnd resolves the exclusive end offset of resource id, using
// the sentinel 0xFFFFFF (meaning "up to the resource table itself").
// The BIOS image calls do not use it: they bound their reads by the
// length of the whole ROM.
func (r *ROM) ResourceEnd(id uint32) (uint32, error) {
	tab := r.ResourceTableOffset()
	entryOff := uint64(tab) + resourceEntrySize*uint64(id+1) + resourceEntrySize
	if entryOff > uint64(len(r.Data)) {
		return 0, fmt.Errorf("rom: resource %d end entry at 0x%06X beyond image length %d", id, entryOff, len(r.Data))
	}
	next := readU24(r.Data, int(tab)+resourceEntrySize*int(id+1))
	if next == resourceSentinel {
		return tab, nil
	}
	return next, nil
}
