package common

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chance-app/backend/pkg/errorx"
	"github.com/chance-app/backend/pkg/storage"
	"github.com/chance-app/backend/pkg/xcontext"
	"github.com/nfnt/resize"
)

type size struct {
	w int
	h int
}

func (s size) String() string {
	return fmt.Sprintf("%dx%d", s.w, s.h)
}

var AvatarSizes = []size{
	{w: 512, h: 512},
	{w: 128, h: 128},
	{w: 32, h: 32},
}

// ProcessImage reads the image under the given multipart form key, resizes
// it to every avatar size, and uploads all variants to storage.
func ProcessImage(ctx context.Context, fileStorage storage.Storage, key string) ([]*storage.UploadResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	if err := req.ParseMultipartForm(xcontext.Configs(ctx).File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the File")
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "We just accept jpeg, gif or png")
	}

	objs := make([]*storage.UploadObject, 0, len(AvatarSizes))
	for _, size := range AvatarSizes {
		img := resize.Resize(uint(size.w), uint(size.h), img, resize.Lanczos2)
		b, err := encodeImg(mime, img)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
			return nil, errorx.Unknown
		}

		objs = append(objs, &storage.UploadObject{
			Bucket:   xcontext.Configs(ctx).Storage.Bucket,
			Prefix:   "avatars",
			FileName: fmt.Sprintf("%s-%s", size, header.Filename),
			Mime:     mime,
			Data:     b,
		})
	}

	uresp, err := fileStorage.BulkUpload(ctx, objs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return uresp, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("unsupported image type %s", mime)
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
