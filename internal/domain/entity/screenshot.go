package entity

import "encoding/base64"

const MimeTypePNG = "image/png"

type Screenshot struct {
	Data   []byte
	Width  int
	Height int
}

func (s *Screenshot) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Data)
}

func (s *Screenshot) DataURL() string {
	return "data:" + MimeTypePNG + ";base64," + s.Base64()
}
