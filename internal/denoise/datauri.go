package denoise

import (
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// ErrInvalidDataURI is returned for payloads not shaped like data:<mime>;base64,<data>
var ErrInvalidDataURI = errors.New("invalid data URI")

// Clip is a decoded audio payload
type Clip struct {
	MimeType string
	Data     []byte
}

// EncodeDataURI renders data as a base64 data URI. Parameters in mimeType,
// such as codecs, are carried into the media type.
func EncodeDataURI(mimeType string, data []byte) string {
	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return dataurl.New(data, mimeType).String()
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, params[k])
	}
	return dataurl.New(data, mediaType, pairs...).String()
}

// ParseDataURI decodes a base64 data URI. Media type parameters such as
// codecs are kept as part of MimeType.
func ParseDataURI(uri string) (Clip, error) {
	if !strings.HasPrefix(uri, "data:") {
		return Clip{}, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}

	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return Clip{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	if du.Encoding != dataurl.EncodingBase64 {
		return Clip{}, fmt.Errorf("%w: payload must be base64 encoded", ErrInvalidDataURI)
	}
	if len(du.Data) == 0 {
		return Clip{}, fmt.Errorf("%w: empty payload", ErrInvalidDataURI)
	}
	return Clip{MimeType: mimeTypeOf(du.MediaType), Data: du.Data}, nil
}

func mimeTypeOf(mt dataurl.MediaType) string {
	keys := make([]string, 0, len(mt.Params))
	for k := range mt.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(mt.ContentType())
	for _, k := range keys {
		b.WriteString(";" + k + "=" + mt.Params[k])
	}
	return b.String()
}
