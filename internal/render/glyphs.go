package render

// Glyph geometry. Every digit glyph is an 8x16 bitmap followed by a one
// pixel kern column.
const (
	GlyphWidth  = 8
	GlyphHeight = 16
	GlyphKern   = 1
	glyphSize   = GlyphWidth * GlyphHeight
	glyphCount  = 10
)

// glyphTable maps a digit (0-9) to its pixel matrix. Built once at package
// init from the row strings below and never mutated afterwards.
var glyphTable [glyphCount][glyphSize]byte

// glyphRows is the pixel art for the digits, one string per row, '#' for a
// lit pixel. Kept as strings so the shapes stay reviewable.
var glyphRows = [glyphCount][GlyphHeight]string{
	{ // 0
		"...##...",
		"..####..",
		".##..##.",
		".#....#.",
		"##....##",
		"##....##",
		"##....##",
		"##..#.##",
		"##.#..##",
		"##....##",
		"##....##",
		"##....##",
		".#....#.",
		".##..##.",
		"..####..",
		"...##...",
	},
	{ // 1
		"...##...",
		"..###...",
		".####...",
		"##.##...",
		"#..##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"########",
		"########",
	},
	{ // 2
		"...##...",
		".#####..",
		".##..##.",
		"##....##",
		"##....##",
		"......##",
		".....##.",
		".....##.",
		"....##..",
		"....##..",
		"...##...",
		"...##...",
		"..##....",
		".###....",
		"########",
		"########",
	},
	{ // 3
		"...##...",
		".######.",
		"###..##.",
		"##....##",
		"......##",
		"......##",
		".....##.",
		"...###..",
		"...###..",
		".....##.",
		"......##",
		"......##",
		"##....##",
		"###..##.",
		".######.",
		"...##...",
	},
	{ // 4
		".....##.",
		"....###.",
		"...####.",
		"...#.##.",
		"..##.##.",
		".##..##.",
		".##..##.",
		"##...##.",
		"########",
		"########",
		".....##.",
		".....##.",
		".....##.",
		".....##.",
		"....####",
		"....####",
	},
	{ // 5
		"#######.",
		"#######.",
		"##......",
		"##......",
		"##......",
		"##......",
		"##.###..",
		"#######.",
		".#...##.",
		"......##",
		"......##",
		"......##",
		"##....##",
		"###..##.",
		".#####..",
		"...##...",
	},
	{ // 6
		"...##...",
		".######.",
		".##..##.",
		"##......",
		"##......",
		"##......",
		"##.##...",
		"#######.",
		"###..##.",
		"##....##",
		"##....##",
		"##....##",
		".#....#.",
		".##..##.",
		".######.",
		"...##...",
	},
	{ // 7
		"########",
		"########",
		"......##",
		"......##",
		".....##.",
		".....##.",
		"....##..",
		"....##..",
		"..#####.",
		"..#####.",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
		"...##...",
	},
	{ // 8
		"...##...",
		".######.",
		".##..##.",
		".#....#.",
		"##....##",
		"##....##",
		".##..##.",
		".######.",
		"..####..",
		".##..##.",
		"###..###",
		"##....##",
		"##....##",
		".##..##.",
		".######.",
		"...##...",
	},
	{ // 9
		"...##...",
		".######.",
		".##..##.",
		".#....#.",
		"##....##",
		"##....##",
		"##....##",
		".##..###",
		".#######",
		"...##.##",
		"......##",
		"......##",
		"......##",
		".##..##.",
		".######.",
		"...##...",
	},
}

func init() {
	for digit, rows := range glyphRows {
		for y, row := range rows {
			if len(row) != GlyphWidth {
				panic("glyph row has wrong width")
			}
			for x := 0; x < GlyphWidth; x++ {
				if row[x] == '#' {
					glyphTable[digit][y*GlyphWidth+x] = 1
				}
			}
		}
	}
}

// glyphForDigit returns the pixel matrix for a decimal digit character,
// or nil for anything else.
func glyphForDigit(c byte) *[glyphSize]byte {
	if c < '0' || c > '9' {
		return nil
	}
	return &glyphTable[c-'0']
}

// textSize returns the raster size in pixels for the given digit count,
// including the kern column after each glyph.
func textSize(digits int) (width, height int) {
	return digits * (GlyphWidth + GlyphKern), GlyphHeight
}
