//go:build darwin

package syncstatus

/*
#cgo LDFLAGS: -framework CoreFoundation
#include <CoreFoundation/CoreFoundation.h>

static Boolean getUbiquitousBool(const char *path, CFStringRef key, Boolean *outValue) {
	CFStringRef cfPath = CFStringCreateWithCString(kCFAllocatorDefault, path, kCFStringEncodingUTF8);
	CFURLRef url = CFURLCreateWithFileSystemPath(kCFAllocatorDefault, cfPath, kCFURLPOSIXPathStyle, false);
	CFTypeRef value = NULL;
	CFErrorRef error = NULL;
	Boolean ok = CFURLCopyResourcePropertyForKey(url, key, &value, &error);
	if (ok && value != NULL) {
		*outValue = CFBooleanGetValue((CFBooleanRef)value);
	}
	if (value != NULL) CFRelease(value);
	if (error != NULL) CFRelease(error);
	CFRelease(url);
	CFRelease(cfPath);
	return ok;
}

static Boolean isUploadingItem(const char *path, Boolean *outValue) {
	return getUbiquitousBool(path, kCFURLUbiquitousItemIsUploadingKey, outValue);
}

static Boolean isDownloadingItem(const char *path, Boolean *outValue) {
	return getUbiquitousBool(path, kCFURLUbiquitousItemIsDownloadingKey, outValue);
}
*/
import "C"

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/duopane/engine/pkg/types"
)

// sfDataless is macOS's SF_DATALESS stat flag: set on a cloud-file stub
// whose content has not been materialized locally.
const sfDataless = 0x40000000

// classifyPath implements spec §4.6's algorithm using the CFURL
// ubiquitous-item resource keys, the C-API equivalent of the NSURL
// resource values the original macOS implementation read directly.
func classifyPath(path string) types.SyncStatus {
	info, err := os.Lstat(path)
	if err != nil {
		return types.SyncStatusUnknown
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return types.SyncStatusUnknown
	}
	isDataless := uint32(st.Flags)&sfDataless != 0

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	if isDataless {
		var downloading C.Boolean
		if C.isDownloadingItem(cPath, &downloading) != 0 && downloading != 0 {
			return types.SyncStatusDownloading
		}
		return types.SyncStatusOnlineOnly
	}

	var uploading C.Boolean
	ok2 := C.isUploadingItem(cPath, &uploading)
	if ok2 == 0 {
		return types.SyncStatusUnknown
	}
	if uploading != 0 {
		return types.SyncStatusUploading
	}
	return types.SyncStatusSynced
}
