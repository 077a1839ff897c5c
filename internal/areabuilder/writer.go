// Package areabuilder serializes assembled area.Area records to Parquet,
// encoding each area's ring geometry as EWKB (polygon or multipolygon
// depending on how many outer rings survived assembly).
package areabuilder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"
	"github.com/paulmach/osm"

	"github.com/wegman-software/osm2pgsql-go/internal/area"
	"github.com/wegman-software/osm2pgsql-go/internal/proj"
	"github.com/wegman-software/osm2pgsql-go/internal/wkb"
)

// Writer batches assembled area.Area records into a Parquet file, geometry
// stored as EWKB binary. Coordinates are reprojected through transform
// before encoding, so area output lands in whatever SRID the run was
// configured for rather than always WGS84.
type Writer struct {
	file      *os.File
	writer    *pqarrow.FileWriter
	builder   *array.RecordBuilder
	encoder   *wkb.Encoder
	transform *proj.Transformer
	batchSize int
	count     int
}

// New creates a Parquet writer at path, flushing every batchSize records.
// targetSRID selects the output projection (proj.SRID4326 or
// proj.SRID3857); area.NodeRef locations are always stored as WGS84
// fixed-point, so the writer reprojects on the way out.
func New(path string, batchSize, targetSRID int) (*Writer, error) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "area_id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "tags", Type: arrow.BinaryTypes.String, Nullable: false},
		{Name: "num_rings", Type: arrow.PrimitiveTypes.Int32, Nullable: false},
		{Name: "geom_wkb", Type: arrow.BinaryTypes.Binary, Nullable: true},
	}, nil)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
		parquet.WithDictionaryDefault(false),
	)

	writer, err := pqarrow.NewFileWriter(schema, f, writerProps, pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return nil, err
	}

	transform, err := proj.NewTransformer(proj.SRID4326, targetSRID)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("area output projection: %w", err)
	}

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)

	return &Writer{
		file:      f,
		writer:    writer,
		builder:   builder,
		encoder:   wkb.NewEncoderWithSRID(4096, targetSRID),
		transform: transform,
		batchSize: batchSize,
	}, nil
}

// Write appends one assembled area. An area with no rings (assembly failed
// structurally) is still written, with a null geometry, so downstream
// consumers can see it was attempted and dropped rather than silently
// missing.
func (w *Writer) Write(a area.Area) error {
	w.builder.Field(0).(*array.Int64Builder).Append(a.ID)
	w.builder.Field(1).(*array.StringBuilder).Append(tagsToJSON(a.Tags))
	w.builder.Field(2).(*array.Int32Builder).Append(int32(len(a.Rings)))

	geomField := w.builder.Field(3).(*array.BinaryBuilder)
	if len(a.Rings) == 0 {
		geomField.AppendNull()
	} else {
		geomField.Append(w.encodeGeometry(a.Rings))
	}

	w.count++
	if w.count >= w.batchSize {
		return w.flush()
	}
	return nil
}

// encodeGeometry chooses Polygon for a single-ring area and MultiPolygon
// for a relation that assembled to more than one outer ring.
func (w *Writer) encodeGeometry(rings []area.Ring) []byte {
	if len(rings) == 1 {
		return w.encoder.EncodePolygonWithRings(w.flatRings(rings[0]))
	}

	polys := make([][][]float64, len(rings))
	for i, r := range rings {
		polys[i] = w.flatRings(r)
	}
	return w.encoder.EncodeMultiPolygon(polys)
}

// flatRings converts one area.Ring (outer + holes) into the [][]float64
// shape internal/wkb expects: rings[0] is the outer, rings[1:] the holes,
// each ring a flat [lon1, lat1, lon2, lat2, ...] slice, reprojected to the
// writer's target SRID.
func (w *Writer) flatRings(r area.Ring) [][]float64 {
	out := make([][]float64, 0, 1+len(r.Inners))
	out = append(out, w.flatVertices(r.Outer))
	for _, inner := range r.Inners {
		out = append(out, w.flatVertices(inner))
	}
	return out
}

func (w *Writer) flatVertices(verts []area.NodeRef) []float64 {
	coords := make([]float64, 0, len(verts)*2)
	for _, v := range verts {
		lon, lat := v.Loc.LonLat()
		coords = append(coords, lon, lat)
	}
	w.transform.TransformCoords(coords)
	return coords
}

// tagsToJSON mirrors internal/parquet's TagsToJSON convention (tags stored
// as a JSON object column rather than a separate key/value table).
func tagsToJSON(tags osm.Tags) string {
	if len(tags) == 0 {
		return "{}"
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func (w *Writer) flush() error {
	if w.count == 0 {
		return nil
	}
	rec := w.builder.NewRecord()
	defer rec.Release()
	err := w.writer.Write(rec)
	w.count = 0
	return err
}

// Close flushes any pending batch and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.flush(); err != nil {
		return err
	}
	if err := w.writer.Close(); err != nil {
		return err
	}
	return w.file.Close()
}
