// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"sonai/internal/features"
)

// Artifact headers. The trailing digit is the format revision.
const (
	modelMagic  = "SONAIKM1"
	scalerMagic = "SONAISC1"
)

var byteOrder = binary.LittleEndian

// ReadModel decodes a cluster model artifact.
func ReadModel(r io.Reader) (*ClusterModel, error) {
	br := bufio.NewReader(r)
	if err := readMagic(br, modelMagic); err != nil {
		return nil, err
	}

	var nameLen uint16
	if err := binary.Read(br, byteOrder, &nameLen); err != nil {
		return nil, fmt.Errorf("failed to read schema length: %w", err)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, fmt.Errorf("failed to read schema name: %w", err)
	}

	var header struct {
		Distance uint8
		K        uint32
		Dims     uint32
	}
	if err := binary.Read(br, byteOrder, &header); err != nil {
		return nil, fmt.Errorf("failed to read model header: %w", err)
	}
	if header.K != K {
		return nil, fmt.Errorf("%w: got %d", ErrClusterCount, header.K)
	}
	if header.Dims != features.Dim {
		return nil, fmt.Errorf("%w: model has %d, want %d", ErrDimension, header.Dims, features.Dim)
	}

	m := &ClusterModel{
		Schema:   string(name),
		Distance: Distance(header.Distance),
	}
	if err := binary.Read(br, byteOrder, &m.Centroids); err != nil {
		return nil, fmt.Errorf("failed to read centroids: %w", err)
	}
	if err := expectEOF(br); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteModel encodes a cluster model artifact.
func WriteModel(w io.Writer, m *ClusterModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if len(m.Schema) > 0xffff {
		return fmt.Errorf("schema name too long: %d bytes", len(m.Schema))
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(modelMagic)
	fields := []any{
		uint16(len(m.Schema)),
		[]byte(m.Schema),
		uint8(m.Distance),
		uint32(K),
		uint32(features.Dim),
		m.Centroids,
	}
	for _, f := range fields {
		if err := binary.Write(bw, byteOrder, f); err != nil {
			return fmt.Errorf("failed to write model: %w", err)
		}
	}
	return bw.Flush()
}

// ReadScaler decodes a linear scaler artifact.
func ReadScaler(r io.Reader) (*LinearScaler, error) {
	br := bufio.NewReader(r)
	if err := readMagic(br, scalerMagic); err != nil {
		return nil, err
	}

	var dims uint32
	if err := binary.Read(br, byteOrder, &dims); err != nil {
		return nil, fmt.Errorf("failed to read scaler header: %w", err)
	}
	if dims != features.Dim {
		return nil, fmt.Errorf("%w: scaler has %d, want %d", ErrDimension, dims, features.Dim)
	}

	s := &LinearScaler{}
	if err := binary.Read(br, byteOrder, &s.Offsets); err != nil {
		return nil, fmt.Errorf("failed to read scaler offsets: %w", err)
	}
	if err := binary.Read(br, byteOrder, &s.Scales); err != nil {
		return nil, fmt.Errorf("failed to read scaler scales: %w", err)
	}
	if err := expectEOF(br); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteScaler encodes a linear scaler artifact.
func WriteScaler(w io.Writer, s *LinearScaler) error {
	if err := s.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(scalerMagic)
	for _, f := range []any{uint32(features.Dim), s.Offsets, s.Scales} {
		if err := binary.Write(bw, byteOrder, f); err != nil {
			return fmt.Errorf("failed to write scaler: %w", err)
		}
	}
	return bw.Flush()
}

// ReadAICluster decodes the single-byte cluster index artifact.
func ReadAICluster(r io.Reader) (AICluster, error) {
	data, err := io.ReadAll(io.LimitReader(r, 2))
	if err != nil {
		return 0, fmt.Errorf("failed to read ai cluster index: %w", err)
	}
	if len(data) != 1 {
		return 0, fmt.Errorf("%w: artifact must be exactly one byte, got %d", ErrClusterIndex, len(data))
	}
	a := AICluster(data[0])
	if err := a.Validate(); err != nil {
		return 0, err
	}
	return a, nil
}

// WriteAICluster encodes the cluster index artifact.
func WriteAICluster(w io.Writer, a AICluster) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := w.Write([]byte{byte(a)})
	return err
}

func readMagic(r io.Reader, want string) error {
	got := make([]byte, len(want))
	if _, err := io.ReadFull(r, got); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(got) != want {
		return fmt.Errorf("%w: got %q, want %q", ErrBadMagic, got, want)
	}
	return nil
}

func expectEOF(r *bufio.Reader) error {
	if _, err := r.ReadByte(); err != io.EOF {
		return fmt.Errorf("artifact has trailing data")
	}
	return nil
}
