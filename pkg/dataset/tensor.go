package dataset

import "github.com/quantbed/lobwin/pkg/model"

// Tensor is a dense row-major float32 array with an explicit shape, the
// exchange format expected by the training collaborator.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Len returns the total number of elements.
func (t Tensor) Len() int { return len(t.Data) }

// Tensors exports the dataset in model-input form: inputs with shape
// (count, T, D, 1), where the trailing singleton channel axis is what 2-D
// convolution consumers expect, and labels with shape (count, 3).
// The returned tensors own their backing storage; batching may reuse it
// across epochs without touching the dataset.
func (d *Dataset) Tensors() (inputs, labels Tensor) {
	count := len(d.Pairs)
	t, dim := d.WindowLength, d.Dim

	inputs = Tensor{
		Shape: []int{count, t, dim, 1},
		Data:  make([]float32, count*t*dim),
	}
	labels = Tensor{
		Shape: []int{count, model.ClassCount},
		Data:  make([]float32, count*model.ClassCount),
	}

	for j, p := range d.Pairs {
		base := j * t * dim
		for s, row := range p.Window {
			off := base + s*dim
			for k, v := range row {
				inputs.Data[off+k] = float32(v)
			}
		}
		for k, v := range p.Label {
			labels.Data[j*model.ClassCount+k] = float32(v)
		}
	}
	return inputs, labels
}
