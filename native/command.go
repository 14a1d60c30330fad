package native

/*
#include <stdlib.h>
#include "zpaqbridge.h"
*/
import "C"

import "unsafe"

// RunJidac invokes the embedded archive tool once, synchronously, with the
// given argument vector (argv[0] included).  Stdout/stderr are captured into
// the output slots; the caller clears the channel before invoking and reads
// the slots after.
func RunJidac(argv []string) int {
	cargs := make([]*C.char, len(argv)+1)
	for i, a := range argv {
		cargs[i] = C.CString(a)
	}
	cargs[len(argv)] = nil
	defer func() {
		for _, ca := range cargs[:len(argv)] {
			C.free(unsafe.Pointer(ca))
		}
	}()

	rc := C.zpaq_jidac_run(C.int(len(argv)), (**C.char)(unsafe.Pointer(&cargs[0])))
	return int(rc)
}

// JidacAddArchiveSize runs the full archive pipeline for one file with output
// discarded and reports the archive byte count it would have produced.
func JidacAddArchiveSize(path, method string, threads int) (uint64, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	cmethod := C.CString(method)
	defer C.free(unsafe.Pointer(cmethod))

	var size C.uint64_t
	rc := C.zpaq_jidac_add_archive_size_file(cpath, cmethod, C.int(threads), &size)
	if rc != 0 {
		return 0, ChannelError()
	}
	return uint64(size), nil
}
