package detect

// point is a pixel coordinate inside an edge map.
type point struct {
	x, y int
}

// minContourSize discards flood-fill components too small to be a shape
// outline.
const minContourSize = 10

// findContours groups connected edge pixels into contours using iterative
// flood fill with 8-connectivity. Components smaller than minContourSize are
// dropped as noise.
func findContours(edges [][]bool) [][]point {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var contours [][]point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] || visited[y][x] {
				continue
			}
			contour := floodFill(edges, visited, x, y, width, height)
			if len(contour) >= minContourSize {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}

// floodFill collects the connected component containing (startX, startY).
// Stack-based rather than recursive so large outlines cannot overflow the
// goroutine stack.
func floodFill(edges, visited [][]bool, startX, startY, width, height int) []point {
	var contour []point
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y][p.x] || !edges[p.y][p.x] {
			continue
		}

		visited[p.y][p.x] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{p.x + dx, p.y + dy})
			}
		}
	}
	return contour
}

// contourBounds returns the min/max pixel coordinates of a contour.
func contourBounds(contour []point) (minX, minY, maxX, maxY int) {
	minX, minY = contour[0].x, contour[0].y
	maxX, maxY = minX, minY
	for _, p := range contour[1:] {
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}
	return minX, minY, maxX, maxY
}
