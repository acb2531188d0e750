package restyutil

import (
	"fmt"
	"path"
	"regexp"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

var unsafeIdChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// messageId names a dumped message after its sequence number and the last
// segment of the request path, ex. "0003-Magitek_Armor.txt".
func messageId(seq uint64, req *resty.Request) string {
	name := "index"
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		base := path.Base(req.RawRequest.URL.Path)
		if base != "/" && base != "." {
			name = unsafeIdChars.ReplaceAllString(base, "_")
		}
	}
	return fmt.Sprintf("%04d-%s.txt", seq, name)
}

// DumpResponses writes every response the client receives to output, it is a
// no-op if output is nil.
func DumpResponses(client *resty.Client, output Output) {
	if output == nil {
		return
	}

	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		seq := atomic.AddUint64(&counter, 1)
		output.Write(messageId(seq, res.Request), FormatHttpMessage(res))
		return nil
	})
}
