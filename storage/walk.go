package storage

import "errors"

// WalkFunc is called for each object during traversal.
// path is the full path to the object, info its description.
// err is any error encountered describing the object.
// Return nil to continue walking, ErrStopWalk to stop without error, or any
// other error to stop with it.
type WalkFunc func(path string, info ObjectInfo, err error) error

// ErrStopWalk can be returned from a WalkFunc to stop walking without an error.
var ErrStopWalk = errors.New("walk stopped")

// Walk traverses all groups and datasets below root, calling fn for root
// first and then for each child in name order.
//
// Example:
//
//	storage.Walk(f, "/", func(path string, info storage.ObjectInfo, err error) error {
//	    if err != nil {
//	        return err // or skip: return nil
//	    }
//	    if info.Group {
//	        fmt.Println("Group:", path)
//	    } else {
//	        fmt.Println("Dataset:", path, "shape:", info.Dims)
//	    }
//	    return nil
//	})
func Walk(l Lister, root string, fn WalkFunc) error {
	err := walk(l, CleanPath(root), fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walk(l Lister, path string, fn WalkFunc) error {
	info, err := l.Stat(path)
	if err != nil {
		return fn(path, ObjectInfo{Path: path}, err)
	}
	if err := fn(path, info, nil); err != nil {
		return err
	}
	if !info.Group {
		return nil
	}

	members, err := l.Members(path)
	if err != nil {
		return fn(path, info, err)
	}
	for _, name := range members {
		if err := walk(l, JoinPath(path, name), fn); err != nil {
			return err
		}
	}
	return nil
}
