package utils

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the pixel width/height of generated pass images.
const qrSize = 256

// PassLinkPayload is encoded into the QR returned to authenticated
// callers. It deliberately carries only the unit and the pass flag.
type PassLinkPayload struct {
	Unit string `json:"unit"`
	Pass bool   `json:"pass"`
}

// PassImagePayload is encoded into the single-use gate pass image
// handed out on the public retrieval path.
type PassImagePayload struct {
	Unit      string `json:"unit"`
	VisitDate string `json:"visit_date"`
	Pass      bool   `json:"pass"`
}

// QRLink renders the payload as a QR PNG and wraps it in a data URI so
// the client can embed it directly in a viewable link.
func QRLink(p PassLinkPayload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(body), qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// QRImage renders the payload as raw PNG bytes for the binary pass
// response.
func QRImage(p PassImagePayload) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(body), qrcode.Medium, qrSize)
}
