package gamesdk

import (
	"github.com/opd-ai/gamesdk/abi"
	"github.com/opd-ai/gamesdk/codec"
	"github.com/opd-ai/gamesdk/dispatch"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/model"
)

// ImageManager fetches user avatars as RGBA pixel data.
//
// The native image calls take the image handle by value. They are only
// available where the platform ABI passes such records by reference;
// elsewhere the real backend fails them with real.ErrUnsupportedABI.
type ImageManager struct {
	manager
}

// Fetch asks the client to download the image. cb receives the handle to
// use with Dimensions and Data.
func (i *ImageManager) Fetch(h model.ImageHandle, refresh bool, cb func(model.Result, model.ImageHandle)) error {
	if cb == nil {
		return ErrNilCallback
	}
	rec := codec.EncodeImageHandle(h)
	var f frame
	defer f.release()
	return i.async(abi.ImageFetch, i.core.table.ImageResult, dispatch.ImageResultFunc(cb), ref(&f, &rec), cbool(refresh))
}

// Dimensions returns the size of a fetched image.
func (i *ImageManager) Dimensions(h model.ImageHandle) (model.ImageDimensions, error) {
	rec := codec.EncodeImageHandle(h)
	var f frame
	defer f.release()
	dims := new(abi.ImageDimensions)
	if err := i.check(abi.ImageGetDimensions, ref(&f, &rec), ref(&f, dims)); err != nil {
		return model.ImageDimensions{}, err
	}
	return codec.DecodeImageDimensions(dims), nil
}

// Data copies the pixels of a fetched image into a buffer of requested
// bytes. The result holds only the valid bytes, width*height*4, however
// large the request was.
func (i *ImageManager) Data(h model.ImageHandle, requested int) ([]byte, error) {
	if err := limits.ValidateImageRequest(requested); err != nil {
		return nil, err
	}
	dims, err := i.Dimensions(h)
	if err != nil {
		return nil, err
	}

	rec := codec.EncodeImageHandle(h)
	buf := make([]byte, requested)
	var f frame
	defer f.release()
	if err := i.check(abi.ImageGetData, ref(&f, &rec), ref(&f, &buf[0]), uintptr(uint32(requested))); err != nil {
		return nil, err
	}
	return codec.Truncate(buf, dims.ByteSize()), nil
}
