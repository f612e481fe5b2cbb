// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package numpy reads and writes tensors in Python's NumPy .npy file format.
//
// Only little-endian data is supported. Fortran-ordered (column-major) files are converted to row-major on read.
// BFloat16 has no standard .npy descriptor and is not supported.
package numpy

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gomlx/tensorpad/pkg/core/dtypes"
	"github.com/gomlx/tensorpad/pkg/core/shapes"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const npyMagic = "\x93NUMPY"

// FromNpyFile reads a .npy file and returns a tensors.Tensor.
func FromNpyFile(filePath string) (*tensors.Tensor, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open .npy file %q", filePath)
	}
	defer func() { _ = file.Close() }()
	tensor, err := FromNpyReader(file)
	if err != nil {
		return nil, errors.WithMessagef(err, "reading %q", filePath)
	}
	return tensor, nil
}

// FromNpyReader reads a .npy file from an io.Reader and returns a tensors.Tensor.
func FromNpyReader(r io.Reader) (*tensors.Tensor, error) {
	preamble := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, preamble); err != nil {
		return nil, errors.Wrapf(err, "failed to read .npy preamble")
	}
	if string(preamble[:len(npyMagic)]) != npyMagic {
		return nil, errors.Errorf("invalid .npy file format: magic string mismatch")
	}
	major, minor := preamble[len(npyMagic)], preamble[len(npyMagic)+1]

	var headerLen int
	switch {
	case major == 1:
		lenBytes := make([]byte, 2)
		if _, err := io.ReadFull(r, lenBytes); err != nil {
			return nil, errors.Wrapf(err, "failed to read header length (v1.0)")
		}
		headerLen = int(binary.LittleEndian.Uint16(lenBytes))
	case major == 2 || major == 3:
		lenBytes := make([]byte, 4)
		if _, err := io.ReadFull(r, lenBytes); err != nil {
			return nil, errors.Wrapf(err, "failed to read header length (v%d.0)", major)
		}
		headerLen = int(binary.LittleEndian.Uint32(lenBytes))
	default:
		return nil, errors.Errorf("unsupported .npy version: %d.%d", major, minor)
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, errors.Wrapf(err, "failed to read header")
	}
	descr, dims, fortranOrder, err := parseNpyHeader(string(headerBytes))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse .npy header")
	}
	klog.V(2).Infof("numpy: header descr=%q shape=%v fortran_order=%v", descr, dims, fortranOrder)
	if strings.HasPrefix(descr, ">") {
		return nil, errors.Errorf("big-endian .npy files (descr %q) are not supported", descr)
	}
	dtype, err := npyDTypeToDType(descr)
	if err != nil {
		return nil, err
	}
	for _, dim := range dims {
		if dim < 0 {
			return nil, errors.Errorf("invalid negative dimension in .npy shape %v", dims)
		}
	}
	shape := shapes.Make(dtype, dims...)

	tensor := tensors.FromShape(shape)
	var readErr error
	err = tensor.MutableBytes(func(data []byte) {
		if !fortranOrder || shape.Rank() <= 1 {
			_, readErr = io.ReadFull(r, data)
		} else {
			fortranData := make([]byte, len(data))
			if _, readErr = io.ReadFull(r, fortranData); readErr == nil {
				fortranToRowMajor(shape, fortranData, data)
			}
		}
		if readErr != nil {
			readErr = errors.Wrapf(readErr, "failed to read tensor data (expected %d bytes)", len(data))
		}
	})
	if err == nil {
		err = readErr
	}
	if err != nil {
		tensor.FinalizeAll()
		return nil, err
	}
	return tensor, nil
}

// fortranToRowMajor copies the column-major fortranData to the row-major data, both for the given shape.
func fortranToRowMajor(shape shapes.Shape, fortranData, data []byte) {
	fortranStrides := make([]int, shape.Rank())
	stride := 1
	for axis, dim := range shape.Dimensions {
		fortranStrides[axis] = stride
		stride *= dim
	}
	elementSize := shape.DType.Size()
	for flatIdx, indices := range shape.Iter() {
		fortranIdx := 0
		for axis, idx := range indices {
			fortranIdx += idx * fortranStrides[axis]
		}
		fortranIdx *= elementSize
		rowMajorIdx := flatIdx * elementSize
		copy(data[rowMajorIdx:rowMajorIdx+elementSize], fortranData[fortranIdx:fortranIdx+elementSize])
	}
}

var (
	reDescr   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	reFortran = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	reShape   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

// parseNpyHeader extracts dtype, shape, and fortran_order from the .npy header dictionary, e.g.:
// "{'descr': '<f4', 'fortran_order': False, 'shape': (1, 2, 3), }".
func parseNpyHeader(header string) (descr string, dims []int, fortranOrder bool, err error) {
	m := reDescr.FindStringSubmatch(header)
	if len(m) < 2 {
		err = errors.Errorf("could not find 'descr' in header: %q", header)
		return
	}
	descr = m[1]

	m = reFortran.FindStringSubmatch(header)
	if len(m) < 2 {
		err = errors.Errorf("could not find 'fortran_order' in header: %q", header)
		return
	}
	fortranOrder = m[1] == "True"

	m = reShape.FindStringSubmatch(header)
	if len(m) < 2 {
		err = errors.Errorf("could not find 'shape' in header: %q", header)
		return
	}
	dims = []int{}
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			// Trailing comma, as in "(10,)", or scalar "()".
			continue
		}
		dim, convErr := strconv.Atoi(part)
		if convErr != nil {
			err = errors.Wrapf(convErr, "invalid shape value %q in header", part)
			return
		}
		dims = append(dims, dim)
	}
	return
}

// npyDTypeToDType converts a little-endian (or byte-order-less) NumPy dtype descriptor to a dtypes.DType.
func npyDTypeToDType(descr string) (dtypes.DType, error) {
	switch strings.TrimLeft(descr, "<|=") {
	case "b1", "?":
		return dtypes.Bool, nil
	case "i1":
		return dtypes.Int8, nil
	case "u1":
		return dtypes.Uint8, nil
	case "i2":
		return dtypes.Int16, nil
	case "u2":
		return dtypes.Uint16, nil
	case "i4":
		return dtypes.Int32, nil
	case "u4":
		return dtypes.Uint32, nil
	case "i8":
		return dtypes.Int64, nil
	case "u8":
		return dtypes.Uint64, nil
	case "f2":
		return dtypes.Float16, nil
	case "f4":
		return dtypes.Float32, nil
	case "f8":
		return dtypes.Float64, nil
	}
	return dtypes.InvalidDType, errors.Errorf("unsupported NumPy dtype %q", descr)
}

// dtypeToNpy converts a dtypes.DType to a little-endian NumPy dtype descriptor.
func dtypeToNpy(dtype dtypes.DType) (string, error) {
	switch dtype {
	case dtypes.Bool:
		return "|b1", nil
	case dtypes.Int8:
		return "|i1", nil
	case dtypes.Uint8:
		return "|u1", nil
	case dtypes.Int16:
		return "<i2", nil
	case dtypes.Uint16:
		return "<u2", nil
	case dtypes.Int32:
		return "<i4", nil
	case dtypes.Uint32:
		return "<u4", nil
	case dtypes.Int64:
		return "<i8", nil
	case dtypes.Uint64:
		return "<u8", nil
	case dtypes.Float16:
		return "<f2", nil
	case dtypes.Float32:
		return "<f4", nil
	case dtypes.Float64:
		return "<f8", nil
	}
	return "", errors.Errorf("dtype %s has no .npy representation", dtype)
}

// ToNpyWriter serializes a tensors.Tensor to an io.Writer in .npy (version 1.0) format.
func ToNpyWriter(tensor *tensors.Tensor, w io.Writer) error {
	shape := tensor.Shape()
	descr, err := dtypeToNpy(shape.DType)
	if err != nil {
		return err
	}

	var shapeTuple string
	switch shape.Rank() {
	case 0:
		shapeTuple = "()"
	case 1:
		shapeTuple = fmt.Sprintf("(%d,)", shape.Dimensions[0])
	default:
		parts := make([]string, shape.Rank())
		for axis, dim := range shape.Dimensions {
			parts[axis] = strconv.Itoa(dim)
		}
		shapeTuple = "(" + strings.Join(parts, ", ") + ")"
	}

	// Preamble (magic, version, header length) is 10 bytes, and the total must align to 64 bytes,
	// with the header terminated by a newline.
	var header bytes.Buffer
	_, _ = fmt.Fprintf(&header, "{'descr': '%s', 'fortran_order': False, 'shape': %s, }", descr, shapeTuple)
	for (10+header.Len()+1)%64 != 0 {
		header.WriteByte(' ')
	}
	header.WriteByte('\n')
	if header.Len() > 0xFFFF {
		return errors.Errorf("header too long (%d bytes) for .npy version 1.0", header.Len())
	}

	var preamble bytes.Buffer
	preamble.WriteString(npyMagic)
	preamble.Write([]byte{1, 0})
	_ = binary.Write(&preamble, binary.LittleEndian, uint16(header.Len()))
	if _, err := w.Write(preamble.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to write .npy preamble")
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return errors.Wrapf(err, "failed to write .npy header")
	}

	var writeErr error
	err = tensor.ConstBytes(func(data []byte) {
		if _, writeErr = w.Write(data); writeErr != nil {
			writeErr = errors.Wrapf(writeErr, "failed to write tensor data")
		}
	})
	if err != nil {
		return err
	}
	return writeErr
}

// ToNpyFile serializes a tensors.Tensor to a .npy file.
func ToNpyFile(tensor *tensors.Tensor, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to create .npy file %q", filePath)
	}
	if err = ToNpyWriter(tensor, file); err != nil {
		_ = file.Close()
		return err
	}
	return errors.Wrapf(file.Close(), "failed to close .npy file %q", filePath)
}
