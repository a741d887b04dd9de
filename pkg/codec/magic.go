package codec

// MagicHeader is the 31-byte exact literal every detached timestamp file
// begins with (spec.md §6.1).
var MagicHeader = []byte{
	0x00, 0x4f, 0x70, 0x65, 0x6e, 0x54, 0x69, 0x6d,
	0x65, 0x73, 0x74, 0x61, 0x6d, 0x70, 0x73, 0x00,
	0x00, 0x50, 0x72, 0x6f, 0x6f, 0x66, 0x00, 0xbf,
	0x89, 0xe2, 0xe8, 0x84, 0xe8, 0x92, 0x94,
}

// nonFinalMarker prefixes every tree element except the last (spec.md §6).
const nonFinalMarker = 0xff

// leafTag marks a leaf record within a tree encoding (spec.md §6).
const leafTag = 0x00
