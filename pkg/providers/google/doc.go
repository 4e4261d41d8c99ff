// Package google implements the Google Generative Language wire format.
//
//   - text:           POST /models/{model}:generateContent
//   - image-generate: POST /models/{model}:predict (Imagen)
//
// Text is read from candidates[0].content.parts[0].text and images from
// predictions[0].bytesBase64Encoded, which is always returned as a data URI.
// Image edits are not offered by this family.
package google
