package annbench

import (
	"sort"

	cm "github.com/gasparian/hash-matching-go/common"
	"github.com/gasparian/hash-matching-go/hash"
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// DefaultDataset is the name of the descriptors dataset inside an hdf5 file
const DefaultDataset = "descriptors"

var (
	errNotMatrix = errors.New("dataset must be two-dimensional")
)

// PrecisionRecall returns ratio of relevant predictions over all predictions
// and over all true relevant items; groundTruth MUST BE SORTED
func PrecisionRecall(prediction, groundTruth []int) (float64, float64) {
	valid := 0
	for _, val := range prediction {
		idx := sort.SearchInts(groundTruth, val)
		if idx < len(groundTruth) && groundTruth[idx] == val {
			valid++
		}
	}
	precision, recall := 0.0, 0.0
	if len(prediction) > 0 {
		precision = float64(valid) / float64(len(prediction))
	}
	if len(groundTruth) > 0 {
		recall = float64(valid) / float64(len(groundTruth))
	}
	return precision, recall
}

// GetDescriptorsFromHDF5 reads a rows x cols float32 dataset from the hdf5 file
func GetDescriptorsFromHDF5(table *hdf5.File, datasetName string) (hash.Descriptors, error) {
	dataset, err := table.OpenDataset(datasetName)
	if err != nil {
		return nil, err
	}
	defer dataset.Close()

	fileSpace := dataset.Space()
	defer fileSpace.Close()
	dims, _, err := fileSpace.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, errors.Wrapf(errNotMatrix, "%s has %v dimensions", datasetName, len(dims))
	}
	rows, cols := int(dims[0]), int(dims[1])
	if rows == 0 || cols == 0 {
		return hash.Descriptors{}, nil
	}

	vecs := make([]float32, fileSpace.SimpleExtentNPoints())
	err = dataset.Read(&vecs)
	if err != nil {
		return nil, err
	}
	return hash.NewDescriptors(cm.ConvertTo64(vecs), cols)
}

// ReadDescriptorsFile opens the hdf5 file and reads the descriptors dataset
func ReadDescriptorsFile(path, datasetName string) (hash.Descriptors, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	defer f.Close()
	desc, err := GetDescriptorsFromHDF5(f, datasetName)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return desc, nil
}

// WriteDescriptorsFile stores descriptors as a rows x cols float32 dataset
func WriteDescriptorsFile(path, datasetName string, desc hash.Descriptors) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	rows, cols := desc.Rows(), desc.Cols()
	if rows == 0 || cols == 0 {
		return errors.Wrap(errNotMatrix, "nothing to write")
	}
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer f.Close()

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(rows), uint(cols)}, nil)
	if err != nil {
		return err
	}
	defer space.Close()
	dataset, err := f.CreateDataset(datasetName, hdf5.T_NATIVE_FLOAT, space)
	if err != nil {
		return err
	}
	defer dataset.Close()

	data := make([]float32, 0, rows*cols)
	for _, row := range desc {
		for _, v := range row {
			data = append(data, float32(v))
		}
	}
	return dataset.Write(&data)
}
