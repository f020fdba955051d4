// Package result normalizes decoded provider answers into one canonical
// shape.
//
// Each provider declares a FieldMap: where its candidate list lives and a
// gjson path (or several) for every canonical field it can fill. Normalize
// applies the map to a JSON document and yields a Result whose candidates
// all carry the same canonical fields, nil where the provider had nothing.
//
//	fm := result.FieldMap{
//		List: "results",
//		Fields: []result.FieldSpec{
//			{Field: result.Latitude, Paths: []string{"lat"}, Coerce: result.CoerceFloat},
//			{Field: result.Longitude, Paths: []string{"lon"}, Coerce: result.CoerceFloat},
//			{Field: result.Address, Paths: []string{"display_name"}},
//		},
//		Required: result.CoordinateFields,
//	}
//	r := result.Normalize(doc, fm)
//	if r.OK() {
//		fmt.Println(r.Lat(), r.Lng())
//	}
package result
