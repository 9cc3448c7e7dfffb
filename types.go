package rolniknysa

import "time"

// Article is a published piece of content. Src is the only stable external
// identifier; it is derived from the title by Slugify at upload time.
type Article struct {
	Src     string     `json:"src"`
	Title   string     `json:"title"`
	Img     []ImageRef `json:"img"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
	Date    time.Time  `json:"date"`
	Author  string     `json:"author"`
	Stats   Stats      `json:"stats"`
}

// ImageRef points an article at an uploaded image.
type ImageRef struct {
	Src     string `json:"src"`
	Caption string `json:"caption"`
}

// Image is an uploaded picture. Path is the on-disk location of the stored
// file; Src is derived from the original filename.
type Image struct {
	Src      string    `json:"src"`
	Original string    `json:"original"`
	Mimetype string    `json:"mimetype"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Meta     ImageMeta `json:"meta"`
	Stats    Stats     `json:"stats"`
}

// ImageMeta records who uploaded an image and when.
type ImageMeta struct {
	Date   time.Time `json:"date"`
	Author string    `json:"author"`
}

// Stats holds per-record counters. Views is bumped on every article
// display read and is never reset.
type Stats struct {
	Views int64 `json:"views"`
}
