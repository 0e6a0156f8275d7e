package lifecycle

import "net/url"

const qrServiceURL = "https://api.qrserver.com/v1/create-qr-code/"

// QRCodeURL renders the raw request id through the external QR image service.
// The volunteer scans it on delivery; there is no custom payload encoding.
func QRCodeURL(requestID string) string {
	q := url.Values{}
	q.Set("data", requestID)
	q.Set("size", "200x200")
	return qrServiceURL + "?" + q.Encode()
}
